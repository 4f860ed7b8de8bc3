package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ragkb/internal/assembler"
	"ragkb/internal/chunker"
	"ragkb/internal/domain"
	"ragkb/internal/extract"
	"ragkb/internal/ranker"
	"ragkb/internal/store"
)

// Embedder turns a text into its embedding vector via an external provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Splitter cuts extracted text into retrieval windows.
type Splitter interface {
	Split(text string) []string
}

// Service wires extraction, chunking, embedding and storage into the
// ingestion pipeline and the query-time context builder. Both paths run
// synchronously on the calling goroutine.
type Service struct {
	splitter Splitter
	embedder Embedder
	chunks   store.ChunkStore
	log      *slog.Logger
}

func New(splitter Splitter, embedder Embedder, chunks store.ChunkStore, log *slog.Logger) *Service {
	if splitter == nil {
		splitter = chunker.NewWindowChunker(chunker.DefaultWindowSize, chunker.DefaultOverlap)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{splitter: splitter, embedder: embedder, chunks: chunks, log: log}
}

// Ingest runs the pipeline for one uploaded file: extract text, split it
// into windows, then embed and store each window in document order. Every
// window is its own unit of work: if embedding window N fails, the loop
// stops and windows 0..N-1 stay in the store. There is no rollback, and
// re-ingesting a file name appends new chunks next to the old ones.
func (s *Service) Ingest(ctx context.Context, data []byte, fileName, mimeType string) (domain.IngestSummary, error) {
	var summary domain.IngestSummary
	if len(data) == 0 {
		return summary, fmt.Errorf("%w: attach a file with content to ingest", domain.ErrInvalidInput)
	}
	if fileName == "" {
		fileName = "documento"
	}

	text, err := extract.Text(data, fileName)
	if err != nil {
		return summary, err
	}
	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return summary, fmt.Errorf("%w: the file contains no text to index", domain.ErrInvalidInput)
	}

	summary.FileName = fileName
	for i, piece := range pieces {
		vector, err := s.embedder.Embed(ctx, piece)
		if err != nil {
			s.log.Warn("ingestion aborted",
				"file", fileName, "chunk", i, "stored", summary.ChunksStored, "error", err)
			return summary, fmt.Errorf("embedding chunk %d of %q: %w", i, fileName, err)
		}
		ch := domain.Chunk{
			FileName:   fileName,
			MimeType:   mimeType,
			ChunkIndex: i,
			ChunkText:  piece,
			Embedding:  vector,
			Dims:       len(vector),
		}
		if err := s.chunks.Save(ctx, &ch); err != nil {
			return summary, fmt.Errorf("storing chunk %d of %q: %w", i, fileName, err)
		}
		summary.ChunksStored++
		summary.EmbeddingDims = len(vector)
	}

	s.log.Info("file ingested",
		"file", fileName, "chunks", summary.ChunksStored, "dims", summary.EmbeddingDims)
	return summary, nil
}

// RetrieveSimilar embeds the query and ranks every stored chunk against
// it, returning at most maxChunks comparable chunks. A failed query
// embedding aborts ranking entirely.
func (s *Service) RetrieveSimilar(ctx context.Context, query string, maxChunks int) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: the query is empty", domain.ErrInvalidInput)
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	all, err := s.chunks.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	return ranker.Rank(vector, all, maxChunks), nil
}

// BuildContext assembles the bounded prompt context for a query. An empty
// string means no usable context, not an error.
func (s *Service) BuildContext(ctx context.Context, query string, maxChunks int) (string, error) {
	scored, err := s.RetrieveSimilar(ctx, query, maxChunks)
	if err != nil {
		return "", err
	}
	return assembler.Build(scored), nil
}

// ChunksOfFile lists the stored chunks of one file ordered by chunk index.
func (s *Service) ChunksOfFile(ctx context.Context, fileName string) ([]domain.Chunk, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	return s.chunks.FindByFileName(ctx, fileName)
}

// StoredChunks reports how many chunks the store currently holds.
func (s *Service) StoredChunks(ctx context.Context) (int, error) {
	return s.chunks.Count(ctx)
}
