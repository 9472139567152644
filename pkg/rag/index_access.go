package rag

import (
	"context"
	"fmt"

	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/pkg/embedding"

	"github.com/google/uuid"
)

// IndexAccess hands out retrievers over a chatbot's chunk index. A chatbot
// with zero indexed chunks has no index, and asking for its retriever
// returns ErrIndexNotFound.
type IndexAccess struct {
	chunkRepo contract.ChatbotChunkRepository
	embedder  embedding.Provider
	k         int
	fetchK    int
	lambda    float64
}

func NewIndexAccess(chunkRepo contract.ChatbotChunkRepository, embedder embedding.Provider) *IndexAccess {
	return &IndexAccess{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		k:         DefaultK,
		fetchK:    DefaultFetchK,
		lambda:    DefaultLambda,
	}
}

// GetRetriever builds a retriever for one chatbot's index. The returned
// retriever stays valid as new chunks are appended: every Retrieve call
// searches the live index.
func (a *IndexAccess) GetRetriever(ctx context.Context, chatbotID uuid.UUID) (Retriever, error) {
	count, err := a.chunkRepo.Count(ctx, specification.ForChatbot{ChatbotID: chatbotID})
	if err != nil {
		return nil, fmt.Errorf("failed to inspect chunk index: %w", err)
	}
	if count == 0 {
		return nil, ErrIndexNotFound
	}

	return &vectorRetriever{
		chunkRepo: a.chunkRepo,
		embedder:  a.embedder,
		chatbotID: chatbotID,
		k:         a.k,
		fetchK:    a.fetchK,
		lambda:    a.lambda,
	}, nil
}

type vectorRetriever struct {
	chunkRepo contract.ChatbotChunkRepository
	embedder  embedding.Provider
	chatbotID uuid.UUID
	k         int
	fetchK    int
	lambda    float64
}

// Retrieve embeds the query, over-fetches the closest candidates, then
// applies maximal marginal relevance to keep the final set diverse.
func (r *vectorRetriever) Retrieve(ctx context.Context, query string) ([]ContextChunk, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := r.chunkRepo.SearchSimilar(ctx, r.chatbotID, queryVec, r.fetchK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	candidates := make([]ContextChunk, 0, len(scored))
	for _, s := range scored {
		candidates = append(candidates, ContextChunk{
			Content:    s.Chunk.Content,
			Similarity: s.Similarity,
			embedding:  s.Chunk.Embedding,
		})
	}

	return maximalMarginalRelevance(queryVec, candidates, r.k, r.lambda), nil
}
