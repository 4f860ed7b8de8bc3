package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"ragkb/internal/domain"
)

// Store persists chunks in a rag_document_chunk table. The embedding is
// stored as a JSON array in a text column so rows stay inspectable with
// plain SQL tooling; an unreadable embedding decodes to an empty vector,
// which the ranker then excludes as non-comparable.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS rag_document_chunk (
	id             BIGSERIAL PRIMARY KEY,
	file_name      VARCHAR(255) NOT NULL,
	mime_type      VARCHAR(100),
	chunk_index    INTEGER NOT NULL,
	chunk_text     TEXT NOT NULL,
	embedding_json TEXT NOT NULL,
	embedding_dims INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
)`

const chunkColumns = `id, file_name, COALESCE(mime_type, ''), chunk_index, chunk_text, embedding_json, embedding_dims, created_at`

// Open connects to Postgres, verifies the connection and creates the chunk
// table when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create chunk table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Save(ctx context.Context, chunk *domain.Chunk) error {
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	embedding, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO rag_document_chunk
			(file_name, mime_type, chunk_index, chunk_text, embedding_json, embedding_dims, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		RETURNING id`,
		chunk.FileName, chunk.MimeType, chunk.ChunkIndex, chunk.ChunkText,
		string(embedding), chunk.Dims, chunk.CreatedAt)
	if err := row.Scan(&chunk.ID); err != nil {
		return fmt.Errorf("insert chunk: %w", err)
	}
	return nil
}

func (s *Store) FindAll(ctx context.Context) ([]domain.Chunk, error) {
	return s.queryChunks(ctx,
		`SELECT `+chunkColumns+` FROM rag_document_chunk ORDER BY id ASC`)
}

func (s *Store) FindByFileName(ctx context.Context, fileName string) ([]domain.Chunk, error) {
	return s.queryChunks(ctx,
		`SELECT `+chunkColumns+` FROM rag_document_chunk WHERE file_name = $1 ORDER BY chunk_index ASC, id ASC`,
		fileName)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rag_document_chunk`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (s *Store) queryChunks(ctx context.Context, query string, args ...any) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var ch domain.Chunk
		var embedding string
		if err := rows.Scan(&ch.ID, &ch.FileName, &ch.MimeType, &ch.ChunkIndex,
			&ch.ChunkText, &embedding, &ch.Dims, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(embedding), &ch.Embedding); err != nil {
			ch.Embedding = nil
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}
