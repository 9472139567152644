package ingest

import (
	"context"
	"fmt"

	"persona-chat-be/pkg/embedding"
	"persona-chat-be/pkg/textsplit"
)

// Splitting defaults carried over from the source document pipeline.
const (
	DefaultChunkSize = 100
	DefaultOverlap   = 20
)

// Chunk is one embedded span of a processed document, ready for indexing.
type Chunk struct {
	Content   string
	Embedding []float32
	Index     int
}

// Processor turns a document file into embedded chunks.
type Processor struct {
	provider  embedding.Provider
	chunkSize int
	overlap   int
}

func NewProcessor(provider embedding.Provider) *Processor {
	return &Processor{
		provider:  provider,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
}

// Process extracts text from the file at path, splits it, and embeds every
// chunk. It fails on the first embedding error: a partially embedded
// document would leave a misleading index behind.
func (p *Processor) Process(ctx context.Context, path string) ([]Chunk, error) {
	text, err := ExtractText(path)
	if err != nil {
		return nil, err
	}

	pieces := textsplit.Split(text, p.chunkSize, p.overlap)

	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := p.provider.Embed(ctx, piece)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, Chunk{
			Content:   piece,
			Embedding: vector,
			Index:     i,
		})
	}

	return chunks, nil
}
