package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"ragkb/internal/domain"
	"ragkb/internal/service"
)

// Default result counts observed by the two query surfaces: the raw
// context preview returns 3 chunks, the chat-augmented path uses 4.
const (
	defaultPreviewChunks = 3
	chatContextChunks    = 4
)

type handlers struct {
	svc       *service.Service
	chat      ChatClient
	maxUpload int64
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, fmt.Errorf("%w: could not parse multipart form: %v", domain.ErrInvalidInput, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: multipart field %q is required", domain.ErrInvalidInput, "file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		writeError(w, fmt.Errorf("%w: could not read the uploaded file: %v", domain.ErrInvalidInput, err))
		return
	}
	if int64(len(data)) > h.maxUpload {
		writeError(w, fmt.Errorf("%w: the file exceeds the %d byte upload limit", domain.ErrInvalidInput, h.maxUpload))
		return
	}

	summary, err := h.svc.Ingest(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handlers) contextPreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	maxChunks := defaultPreviewChunks
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, fmt.Errorf("%w: %q is not a valid chunk count", domain.ErrInvalidInput, v))
			return
		}
		maxChunks = n
	}

	docContext, err := h.svc.BuildContext(r.Context(), query, maxChunks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"context": docContext})
}

func (h *handlers) chatAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: could not decode request body: %v", domain.ErrInvalidInput, err))
		return
	}

	docContext, err := h.svc.BuildContext(r.Context(), req.Question, chatContextChunks)
	if err != nil {
		writeError(w, err)
		return
	}
	answer, err := h.chat.Answer(r.Context(), req.Question, docContext)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type chunkDTO struct {
	ID            int64     `json:"id"`
	ChunkIndex    int       `json:"chunkIndex"`
	ChunkText     string    `json:"chunkText"`
	MimeType      string    `json:"mimeType,omitempty"`
	EmbeddingDims int       `json:"embeddingDims"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *handlers) fileChunks(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	chunks, err := h.svc.ChunksOfFile(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]chunkDTO, 0, len(chunks))
	for _, ch := range chunks {
		out = append(out, chunkDTO{
			ID:            ch.ID,
			ChunkIndex:    ch.ChunkIndex,
			ChunkText:     ch.ChunkText,
			MimeType:      ch.MimeType,
			EmbeddingDims: ch.Dims,
			CreatedAt:     ch.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fileName": name,
		"chunks":   out,
		"total":    len(out),
	})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.StoredChunks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "chunks": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error kinds to HTTP statuses: client defects are
// 400, configuration and provider failures are 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
