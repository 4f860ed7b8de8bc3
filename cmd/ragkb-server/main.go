package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ragkb/internal/chunker"
	"ragkb/internal/config"
	"ragkb/internal/embedding/openai"
	"ragkb/internal/llm"
	"ragkb/internal/server"
	"ragkb/internal/service"
	"ragkb/internal/store"
	"ragkb/internal/store/memory"
	"ragkb/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragkb/config.yaml if not provided)")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var st store.ChunkStore
	switch cfg.Store.Type {
	case "memory", "":
		st = memory.NewStore()
	case "postgres":
		dsn := os.Getenv(cfg.Store.Postgres.DSNEnv)
		if dsn == "" {
			log.Error("postgres DSN environment variable is not set", "env", cfg.Store.Postgres.DSNEnv)
			os.Exit(1)
		}
		pg, err := postgres.Open(ctx, dsn)
		if err != nil {
			log.Error("postgres store init failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
	default:
		log.Error("unknown store", "type", cfg.Store.Type)
		os.Exit(1)
	}

	emb := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKeyEnv: cfg.Embedding.APIKeyEnv,
		Model:     cfg.Embedding.Model,
		Timeout:   time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	})
	chat := llm.NewClient(llm.Config{
		URL:       cfg.Chat.URL,
		APIKeyEnv: cfg.Chat.APIKeyEnv,
		Model:     cfg.Chat.Model,
		Timeout:   time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	split := chunker.NewWindowChunker(cfg.Chunker.WindowSize, cfg.Chunker.Overlap)
	svc := service.New(split, emb, st, log)

	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	srv := server.New(cfg.Server.Addr, svc, chat, maxUpload, log)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Store.Type, "model", emb.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("stopped")
}
