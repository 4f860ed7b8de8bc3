package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, 800, cfg.Chunker.WindowSize)
	assert.Equal(t, 120, cfg.Chunker.Overlap)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFillsDefaultsForPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &AppConfig{
		Chunker: ChunkerConfig{WindowSize: 400},
		Store:   StoreConfig{Type: "postgres"},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, loaded.Chunker.WindowSize)
	assert.Equal(t, 120, loaded.Chunker.Overlap)
	require.NotNil(t, loaded.Store.Postgres)
	assert.Equal(t, "RAGKB_POSTGRES_DSN", loaded.Store.Postgres.DSNEnv)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &AppConfig{
		Embedding: EmbeddingConfig{Model: "text-embedding-3-large", TimeoutSecs: 5},
		Server:    ServerConfig{Addr: ":9090", MaxUploadMB: 25},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-large", loaded.Embedding.Model)
	assert.Equal(t, 5, loaded.Embedding.TimeoutSecs)
	assert.Equal(t, ":9090", loaded.Server.Addr)
	assert.Equal(t, 25, loaded.Server.MaxUploadMB)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedding: [not: a: mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
