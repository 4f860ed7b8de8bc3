package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragkb/internal/domain"
)

func TestSaveAssignsSequentialIDsAndStampsCreatedAt(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ch := domain.Chunk{FileName: "a.txt", ChunkIndex: i, ChunkText: "x", Embedding: []float64{1}, Dims: 1}
		require.NoError(t, s.Save(ctx, &ch))
		assert.Equal(t, int64(i+1), ch.ID)
		assert.False(t, ch.CreatedAt.IsZero())
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFindAllReturnsIndependentCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	ch := domain.Chunk{FileName: "a.txt", ChunkText: "original", Embedding: []float64{1, 2}, Dims: 2}
	require.NoError(t, s.Save(ctx, &ch))

	first, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	first[0].ChunkText = "mutated"
	first[0].Embedding[0] = 99

	second, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", second[0].ChunkText)
	assert.Equal(t, float64(1), second[0].Embedding[0])
}

func TestSaveCopiesEmbeddingFromCaller(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	vec := []float64{1, 2, 3}
	ch := domain.Chunk{FileName: "a.txt", ChunkText: "x", Embedding: vec, Dims: 3}
	require.NoError(t, s.Save(ctx, &ch))

	vec[0] = 42

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), all[0].Embedding[0])
}

func TestFindByFileNameFiltersAndOrders(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	save := func(name string, index int) {
		ch := domain.Chunk{FileName: name, ChunkIndex: index, ChunkText: "x", Embedding: []float64{1}, Dims: 1}
		require.NoError(t, s.Save(ctx, &ch))
	}
	save("b.txt", 0)
	save("a.txt", 1)
	save("a.txt", 0)
	save("a.txt", 2)

	got, err := s.FindByFileName(ctx, "a.txt")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].ChunkIndex, got[1].ChunkIndex, got[2].ChunkIndex})

	missing, err := s.FindByFileName(ctx, "nope.txt")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFindByFileNameReingestionTiesBreakByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := domain.Chunk{FileName: "a.txt", ChunkIndex: 0, ChunkText: "first", Embedding: []float64{1}, Dims: 1}
	require.NoError(t, s.Save(ctx, &first))
	second := domain.Chunk{FileName: "a.txt", ChunkIndex: 0, ChunkText: "second", Embedding: []float64{1}, Dims: 1}
	require.NoError(t, s.Save(ctx, &second))

	got, err := s.FindByFileName(ctx, "a.txt")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ChunkText)
	assert.Equal(t, "second", got[1].ChunkText)
}
