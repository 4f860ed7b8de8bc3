package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragkb/internal/chunker"
	"ragkb/internal/config"
	"ragkb/internal/embedding/openai"
	"ragkb/internal/service"
	"ragkb/internal/store"
	"ragkb/internal/store/memory"
	"ragkb/internal/store/postgres"
	"ragkb/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragkb/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: ragkb [--config=config.yaml] file1.txt [file2.docx ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	var st store.ChunkStore
	switch cfg.Store.Type {
	case "memory", "":
		st = memory.NewStore()
	case "postgres":
		dsn := os.Getenv(cfg.Store.Postgres.DSNEnv)
		if dsn == "" {
			log.Fatalf("environment variable %s is not set", cfg.Store.Postgres.DSNEnv)
		}
		pg, err := postgres.Open(ctx, dsn)
		if err != nil {
			log.Fatalf("postgres store init failed: %v", err)
		}
		defer pg.Close()
		st = pg
	default:
		log.Fatalf("unknown store: %s", cfg.Store.Type)
	}

	emb := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKeyEnv: cfg.Embedding.APIKeyEnv,
		Model:     cfg.Embedding.Model,
		Timeout:   time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	})
	split := chunker.NewWindowChunker(cfg.Chunker.WindowSize, cfg.Chunker.Overlap)
	svc := service.New(split, emb, st, nil)

	total := 0
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("could not read %s: %v", path, err)
		}
		name := filepath.Base(path)
		mimeType := mime.TypeByExtension(filepath.Ext(name))
		summary, err := svc.Ingest(ctx, data, name, mimeType)
		if err != nil {
			log.Fatalf("ingest of %s failed: %v", name, err)
		}
		total += summary.ChunksStored
	}

	status := fmt.Sprintf("Indexed %d chunks from %d file(s). Type to query.", total, len(inputs))
	m := tui.New(svc, status)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
