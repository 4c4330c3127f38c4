package gptifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"
)

// DefaultOllamaURL is where a local Ollama server listens by default. The
// explicit IPv4 address avoids resolving localhost to ::1.
const DefaultOllamaURL = "http://127.0.0.1:11434"

// ErrOllamaUnreachable wraps transport failures talking to Ollama, which
// almost always mean the server is not running.
var ErrOllamaUnreachable = errors.New("ollama server is unreachable")

// OllamaClient is a client for a local Ollama server. Its error envelope is
// {"error": "..."} and its payloads carry no "object" discriminator.
//
// https://github.com/ollama/ollama/blob/main/docs/api.md
type OllamaClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewOllamaClient returns a client for the server at baseURL, or at
// DefaultOllamaURL when baseURL is empty.
func NewOllamaClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpClient,
		Logger:     logger,
	}
}

func (c *OllamaClient) post(ctx context.Context, path string, body []byte) (exchange, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return exchange{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	r.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(r)
	if err != nil {
		return exchange{}, fmt.Errorf("%w: %w", ErrOllamaUnreachable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return exchange{}, fmt.Errorf("failed to read response body: %w", err)
	}

	c.Logger.Debug().
		Str("method", http.MethodPost).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(b)).
		Msg("ollama request")

	return exchange{
		OK:   resp.StatusCode >= 200 && resp.StatusCode < 300,
		Code: resp.StatusCode,
		Body: string(b),
	}, nil
}

// Chat sends a single user message to model, without streaming.
//
// https://github.com/ollama/ollama/blob/main/docs/api.md#generate-a-chat-completion
func (c *OllamaClient) Chat(ctx context.Context, prompt, model string) (Completion, error) {
	body, err := buildBody(`{"stream":false}`,
		"model", model,
		"messages.0.role", "user",
		"messages.0.content", prompt,
	)
	if err != nil {
		return Completion{}, err
	}

	start := time.Now()
	ex, err := c.post(ctx, "/api/chat", body)
	if err != nil {
		return Completion{}, err
	}
	rtt := time.Since(start)

	if err := ex.check(serialization.BackendOllama); err != nil {
		return Completion{}, err
	}

	completion, err := serialization.Decode(ex.Body, serialization.BackendOllama, serialization.ObjectNone,
		serialization.UnpackChatCompletion(serialization.OllamaChatFields))
	if err != nil {
		return Completion{}, err
	}
	completion.Input = prompt
	completion.RTT = rtt

	return completion, nil
}

// Embed embeds a single input text.
//
// https://github.com/ollama/ollama/blob/main/docs/api.md#generate-embeddings
func (c *OllamaClient) Embed(ctx context.Context, input, model string) (Embedding, error) {
	body, err := buildBody(`{}`, "model", model, "input", input)
	if err != nil {
		return Embedding{}, err
	}

	ex, err := c.post(ctx, "/api/embed", body)
	if err != nil {
		return Embedding{}, err
	}

	if err := ex.check(serialization.BackendOllama); err != nil {
		return Embedding{}, err
	}

	e, err := serialization.Decode(ex.Body, serialization.BackendOllama, serialization.ObjectNone,
		serialization.UnpackEmbedding(serialization.OllamaEmbeddingFields))
	if err != nil {
		return Embedding{}, err
	}
	e.Input = input

	return e, nil
}

// buildBody sets each path and string value pair on base, in order.
func buildBody(base string, pathsAndValues ...string) ([]byte, error) {
	body := []byte(base)
	for i := 0; i+1 < len(pathsAndValues); i += 2 {
		var err error
		body, err = sjson.SetBytes(body, pathsAndValues[i], pathsAndValues[i+1])
		if err != nil {
			return nil, fmt.Errorf("failed to build request body: set %s: %w", pathsAndValues[i], err)
		}
	}
	return body, nil
}
