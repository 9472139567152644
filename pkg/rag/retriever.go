package rag

import (
	"context"
	"errors"
)

// ErrIndexNotFound signals that a chatbot has no indexed knowledge yet, so
// no retriever can be built for it.
var ErrIndexNotFound = errors.New("no document index exists for this chatbot")

// Retrieval defaults. The retriever over-fetches candidates and reranks
// them down to K diverse results.
const (
	DefaultK      = 5
	DefaultFetchK = 10
	DefaultLambda = 0.5
)

// ContextChunk is one retrieved span of chatbot knowledge.
type ContextChunk struct {
	Content    string
	Similarity float64
	embedding  []float32
}

// Retriever finds the chunks most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]ContextChunk, error)
}
