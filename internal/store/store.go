package store

import (
	"context"

	"ragkb/internal/domain"
)

// ChunkStore persists chunk records. The store is append-only: Save
// assigns an id and stamps CreatedAt when unset, and no update or delete
// operation exists. Similarity ranking happens in-process over FindAll, so
// implementations need no search capability of their own.
type ChunkStore interface {
	Save(ctx context.Context, chunk *domain.Chunk) error
	FindAll(ctx context.Context) ([]domain.Chunk, error)
	// FindByFileName returns the chunks of one file ordered by chunk index
	// ascending (ties, from re-ingested files, by id).
	FindByFileName(ctx context.Context, fileName string) ([]domain.Chunk, error)
	Count(ctx context.Context) (int, error)
}
