package ranker

import (
	"math"
	"sort"

	"ragkb/internal/domain"
)

// Rank scores every chunk by cosine similarity against the query vector
// and returns at most maxResults of them, ordered by descending score.
// Chunks whose vector length differs from the query's, or where either
// vector has zero norm, have no defined similarity and are excluded
// entirely; they never count toward maxResults. Equal scores order by
// ascending chunk id, which is insertion order for both stores.
func Rank(query []float64, chunks []domain.Chunk, maxResults int) []domain.ScoredChunk {
	if maxResults <= 0 {
		return nil
	}
	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, ch := range chunks {
		score, ok := Cosine(query, ch.Embedding)
		if !ok {
			continue
		}
		scored = append(scored, domain.ScoredChunk{Chunk: ch, Score: score})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.ID < scored[j].Chunk.ID
	})
	if maxResults < len(scored) {
		scored = scored[:maxResults]
	}
	return scored
}

// Cosine returns the cosine similarity of two vectors: dot(a,b) divided by
// the product of their norms, in [-1, 1]. ok is false when the similarity
// is undefined: empty vectors, mismatched lengths or zero norm.
func Cosine(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
