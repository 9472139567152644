// FILE: internal/dto/chatbot_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatbotRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=100"`
	Description   string `json:"description" validate:"required"`
	PersonaPrompt string `json:"persona_prompt" validate:"required"`
}

type CreateChatbotResponse struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ChunkCount int       `json:"chunk_count"`
}

type ChatbotSummaryResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type SendChatRequest struct {
	ChatbotName string `json:"chatbot_name" validate:"required"`
	Question    string `json:"question" validate:"required"`
}

type SendChatResponse struct {
	ChatbotName string    `json:"chatbot_name"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	HistoryLen  int       `json:"history_len"`
	AnsweredAt  time.Time `json:"answered_at"`
}

type ChatTurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatHistoryResponse struct {
	ChatbotName string        `json:"chatbot_name"`
	Turns       []ChatTurnDTO `json:"turns"`
}

type AppendDocumentResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
}

// PublishIngestDocumentMessage is the queue payload for async ingestion.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	ChatbotId  uuid.UUID `json:"chatbot_id"`
	FilePath   string    `json:"file_path"`
	Filename   string    `json:"filename"`
}
