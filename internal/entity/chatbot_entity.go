package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chatbot is owned by exactly one user. Names are unique per owner only,
// never globally.
type Chatbot struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Name          string
	Description   string
	PersonaPrompt string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChatbotChunk is one embedded span of a chatbot's source document.
// The set of chunks for a chatbot is its retrieval index.
type ChatbotChunk struct {
	Id         uuid.UUID
	ChatbotId  uuid.UUID
	Content    string
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
}

// ChatbotDocument records one ingested source file.
type ChatbotDocument struct {
	Id        uuid.UUID
	ChatbotId uuid.UUID
	Filename  string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
