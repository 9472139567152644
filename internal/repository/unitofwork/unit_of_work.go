package unitofwork

import (
	"context"

	"persona-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatbotRepository() contract.ChatbotRepository
	ChatbotChunkRepository() contract.ChatbotChunkRepository
	ChatbotDocumentRepository() contract.ChatbotDocumentRepository
}
