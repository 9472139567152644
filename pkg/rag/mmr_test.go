package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMMRReturnsAllWhenFewCandidates(t *testing.T) {
	candidates := []ContextChunk{
		{Content: "a", Similarity: 0.9, embedding: []float32{1, 0}},
		{Content: "b", Similarity: 0.8, embedding: []float32{0, 1}},
	}

	selected := maximalMarginalRelevance([]float32{1, 0}, candidates, 5, DefaultLambda)
	assert.Len(t, selected, 2)
}

func TestMMRFirstPickIsMostRelevant(t *testing.T) {
	candidates := []ContextChunk{
		{Content: "best", Similarity: 0.95, embedding: []float32{1, 0, 0}},
		{Content: "good", Similarity: 0.80, embedding: []float32{0.9, 0.1, 0}},
		{Content: "ok", Similarity: 0.60, embedding: []float32{0, 1, 0}},
		{Content: "meh", Similarity: 0.40, embedding: []float32{0, 0, 1}},
	}

	selected := maximalMarginalRelevance([]float32{1, 0, 0}, candidates, 2, DefaultLambda)
	require.NotEmpty(t, selected)
	assert.Equal(t, "best", selected[0].Content)
}

func TestMMRPrefersDiverseResults(t *testing.T) {
	// Two near-duplicates of the query and one distinct candidate. With a
	// balanced lambda the duplicate must lose to the distinct one.
	candidates := []ContextChunk{
		{Content: "dup1", Similarity: 0.99, embedding: []float32{1, 0}},
		{Content: "dup2", Similarity: 0.98, embedding: []float32{1, 0.01}},
		{Content: "distinct", Similarity: 0.50, embedding: []float32{0.1, 1}},
	}

	selected := maximalMarginalRelevance([]float32{1, 0}, candidates, 2, 0.5)
	require.Len(t, selected, 2)
	assert.Equal(t, "dup1", selected[0].Content)
	assert.Equal(t, "distinct", selected[1].Content)
}

func TestMMRBounds(t *testing.T) {
	candidates := []ContextChunk{
		{Content: "a", Similarity: 0.9, embedding: []float32{1, 0}},
		{Content: "b", Similarity: 0.8, embedding: []float32{0, 1}},
		{Content: "c", Similarity: 0.7, embedding: []float32{1, 1}},
	}

	assert.Nil(t, maximalMarginalRelevance([]float32{1, 0}, candidates, 0, 0.5))
	assert.Nil(t, maximalMarginalRelevance([]float32{1, 0}, nil, 3, 0.5))
	assert.Len(t, maximalMarginalRelevance([]float32{1, 0}, candidates, 2, 0.5), 2)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Mismatched or empty vectors degrade to zero
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
