package implementation

import (
	"context"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/mapper"
	"persona-chat-be/internal/model"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/scope"
	"persona-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChatbotChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatbotChunkMapper
}

func NewChatbotChunkRepository(db *gorm.DB) contract.ChatbotChunkRepository {
	return &ChatbotChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatbotChunkMapper(),
	}
}

func (r *ChatbotChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatbotChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.ChatbotChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.ChatbotChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChatbotChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatbotChunk{}).Count(&count).Error
	return count, err
}

func (r *ChatbotChunkRepositoryImpl) DeleteByChatbotId(ctx context.Context, chatbotID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chatbot_id = ?", chatbotID).Delete(&model.ChatbotChunk{}).Error
}

// SearchSimilar ranks chunks of a single chatbot by pgvector cosine
// distance. The query is scoped by chatbot_id, so a chatbot can never see
// another tenant's chunks.
func (r *ChatbotChunkRepositoryImpl) SearchSimilar(ctx context.Context, chatbotID uuid.UUID, vector []float32, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type result struct {
		model.ChatbotChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("chatbot_chunks").
		Select("chatbot_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("chatbot_id = ?", chatbotID).
		Scopes(scope.ExcludeSoftDelete).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.ChatbotChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
