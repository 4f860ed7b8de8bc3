package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ragkb/internal/domain"
)

// systemPrompt keeps the assistant scoped to the loaded project knowledge.
const systemPrompt = "Eres un asistente de proyectos. Usa el contexto si está presente. Responde en español en 5-8 líneas máximo."

// Client calls an OpenAI-compatible chat-completions endpoint to answer a
// question grounded in the retrieved document context.
type Client struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// Config configures the chat client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	URL       string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		apiKey: os.Getenv(cfg.APIKeyEnv),
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
	}
}

// Answer sends the question plus the assembled document context to the
// chat model and returns its reply.
func (c *Client) Answer(ctx context.Context, question, docContext string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: chat API key is not set", domain.ErrNotConfigured)
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: send a question to query the loaded knowledge", domain.ErrInvalidInput)
	}

	payload := map[string]any{
		"model":       c.model,
		"temperature": 0.3,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(docContext, question)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", domain.ErrProvider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: chat endpoint returned %s", domain.ErrProvider, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrProvider, err)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", domain.ErrProvider, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: the model returned no content", domain.ErrProvider)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func buildPrompt(docContext, question string) string {
	prefix := "Contexto: (no hay documentos cargados todavía)\n\n"
	if strings.TrimSpace(docContext) != "" {
		prefix = "Contexto disponible:\n" + docContext + "\n\n"
	}
	return prefix + "Pregunta: " + question
}
