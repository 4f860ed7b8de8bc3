package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ragkb/internal/service"
)

// ChatClient answers a question using the assembled document context.
type ChatClient interface {
	Answer(ctx context.Context, question, docContext string) (string, error)
}

// New builds the HTTP server exposing the ingestion and query API.
func New(addr string, svc *service.Service, chat ChatClient, maxUploadBytes int64, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(svc, chat, maxUploadBytes, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter wires the handlers; split out from New so tests can drive the
// routes without binding a listener.
func NewRouter(svc *service.Service, chat ChatClient, maxUploadBytes int64, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &handlers{svc: svc, chat: chat, maxUpload: maxUploadBytes}

	r := mux.NewRouter()
	r.Use(requestLogging(log))
	r.HandleFunc("/rag/upload", h.upload).Methods(http.MethodPost)
	r.HandleFunc("/rag/context", h.contextPreview).Methods(http.MethodGet)
	r.HandleFunc("/rag/chat", h.chatAnswer).Methods(http.MethodPost)
	r.HandleFunc("/rag/files/{name}/chunks", h.fileChunks).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	return r
}
