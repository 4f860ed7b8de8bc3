package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ragkb/internal/domain"
)

// Store keeps chunk records in process memory behind a mutex. Ids are a
// monotonically increasing sequence, so insertion order stays recoverable
// for deterministic tie-breaking.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	chunks []domain.Chunk
}

func NewStore() *Store { return &Store{nextID: 1} }

func (s *Store) Save(_ context.Context, chunk *domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk.ID = s.nextID
	s.nextID++
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	stored := *chunk
	stored.Embedding = append([]float64(nil), chunk.Embedding...)
	s.chunks = append(s.chunks, stored)
	return nil
}

func (s *Store) FindAll(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

func (s *Store) FindByFileName(_ context.Context, fileName string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Chunk
	for _, ch := range s.chunks {
		if ch.FileName == fileName {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChunkIndex != out[j].ChunkIndex {
			return out[i].ChunkIndex < out[j].ChunkIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}
