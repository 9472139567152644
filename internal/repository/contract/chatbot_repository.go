package contract

import (
	"context"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatbotRepository interface {
	Create(ctx context.Context, chatbot *entity.Chatbot) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chatbot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chatbot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChatbotDocumentRepository interface {
	Create(ctx context.Context, doc *entity.ChatbotDocument) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatbotDocument, error)
}
