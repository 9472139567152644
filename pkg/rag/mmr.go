package rag

import "math"

// maximalMarginalRelevance reranks candidates so the selected set balances
// relevance to the query against diversity among the results. lambda = 1
// means pure relevance, lambda = 0 means pure diversity.
//
// Candidates must arrive sorted by similarity descending; the first pick is
// always the most relevant one.
func maximalMarginalRelevance(queryVec []float32, candidates []ContextChunk, k int, lambda float64) []ContextChunk {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= k {
		return candidates
	}

	selected := make([]ContextChunk, 0, k)
	remaining := make([]ContextChunk, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			relevance := cand.Similarity
			if len(queryVec) > 0 && len(cand.embedding) > 0 {
				relevance = cosineSimilarity(queryVec, cand.embedding)
			}

			maxSim := 0.0
			for _, sel := range selected {
				if sim := cosineSimilarity(cand.embedding, sel.embedding); sim > maxSim {
					maxSim = sim
				}
			}

			score := lambda*relevance - (1-lambda)*maxSim
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
