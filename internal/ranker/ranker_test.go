package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragkb/internal/domain"
)

func chunk(id int64, vec ...float64) domain.Chunk {
	return domain.Chunk{ID: id, Embedding: vec, Dims: len(vec)}
}

func TestCosineBounds(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5}

	same, ok := Cosine(v, v)
	require.True(t, ok)
	assert.InDelta(t, 1.0, same, 1e-12)

	opposite, ok := Cosine(v, []float64{-0.3, 1.2, -4.5})
	require.True(t, ok)
	assert.InDelta(t, -1.0, opposite, 1e-12)

	orthogonal, ok := Cosine([]float64{1, 0}, []float64{0, 1})
	require.True(t, ok)
	assert.InDelta(t, 0.0, orthogonal, 1e-12)
}

func TestCosineUndefinedCases(t *testing.T) {
	_, ok := Cosine([]float64{1, 2}, []float64{1, 2, 3})
	assert.False(t, ok, "length mismatch")

	_, ok = Cosine([]float64{0, 0}, []float64{1, 2})
	assert.False(t, ok, "zero-norm vector")

	_, ok = Cosine(nil, []float64{1})
	assert.False(t, ok, "empty vector")
}

func TestRankOrdersByDescendingScore(t *testing.T) {
	query := []float64{1, 0}
	chunks := []domain.Chunk{
		chunk(1, 0, 1), // orthogonal, score 0
		chunk(2, 1, 0), // identical direction, score 1
		chunk(3, 1, 1), // score ~0.707
		chunk(4, -1, 0), // score -1
	}

	got := Rank(query, chunks, 10)

	require.Len(t, got, 4)
	assert.Equal(t, []int64{2, 3, 1, 4}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRankExcludesNonComparableChunks(t *testing.T) {
	query := []float64{1, 0, 0}
	chunks := []domain.Chunk{
		chunk(1, 1, 0), // wrong length
		chunk(2, 0, 0, 0), // zero norm
		chunk(3, 1, 0, 0), // comparable
	}

	got := Rank(query, chunks, 10)

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Chunk.ID)
}

func TestRankTotalLengthMismatchReturnsNothing(t *testing.T) {
	query := make([]float64, 3072)
	query[0] = 1
	stored := make([]float64, 1536)
	stored[0] = 1
	chunks := []domain.Chunk{
		chunk(1, stored...),
		chunk(2, stored...),
	}

	assert.Empty(t, Rank(query, chunks, 5))
}

func TestRankHonorsMaxResults(t *testing.T) {
	query := []float64{1, 0}
	var chunks []domain.Chunk
	for i := int64(1); i <= 6; i++ {
		chunks = append(chunks, chunk(i, float64(i), 1))
	}

	assert.Len(t, Rank(query, chunks, 3), 3)
	assert.Len(t, Rank(query, chunks, 20), 6)
	assert.Empty(t, Rank(query, chunks, 0))
}

func TestRankBreaksTiesByAscendingID(t *testing.T) {
	query := []float64{1, 1}
	chunks := []domain.Chunk{
		chunk(9, 2, 2),
		chunk(3, 1, 1),
		chunk(5, 4, 4),
	}

	got := Rank(query, chunks, 10)

	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 5, 9}, ids(got))
}

func ids(scored []domain.ScoredChunk) []int64 {
	out := make([]int64, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Chunk.ID)
	}
	return out
}
