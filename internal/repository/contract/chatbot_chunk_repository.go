package contract

import (
	"context"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk wraps a chunk with its cosine similarity to the query vector.
type ScoredChunk struct {
	Chunk      *entity.ChatbotChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ChatbotChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.ChatbotChunk) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByChatbotId(ctx context.Context, chatbotID uuid.UUID) error

	// SearchSimilar returns up to limit chunks of one chatbot ranked by
	// cosine similarity to the query vector, most similar first.
	SearchSimilar(ctx context.Context, chatbotID uuid.UUID, vector []float32, limit int) ([]*ScoredChunk, error)
}
