package domain

import "time"

// Chunk is the unit of storage and retrieval: one text window cut from an
// ingested document together with its embedding vector. Chunks are
// append-only; nothing mutates them after the store assigns an id.
type Chunk struct {
	ID         int64
	FileName   string
	MimeType   string
	ChunkIndex int
	ChunkText  string
	Embedding  []float64
	Dims       int
	CreatedAt  time.Time
}

// ScoredChunk pairs a stored chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// IngestSummary reports the outcome of one file ingestion.
type IngestSummary struct {
	FileName      string `json:"fileName"`
	ChunksStored  int    `json:"chunksStored"`
	EmbeddingDims int    `json:"embeddingDims"`
}
