package gptifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/openai/openai-go"
)

// ChatRequest is a single-turn chat completion request.
type ChatRequest struct {
	Prompt      string
	Model       string
	Temperature float64

	// Store keeps the completion on the platform so it shows up in
	// ListChatCompletions.
	Store bool
}

// CreateChatCompletion sends a single user message and returns the first
// choice. The returned Completion carries the prompt, the round-trip time
// and the raw payload.
//
// https://platform.openai.com/docs/api-reference/chat/create
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatRequest) (Completion, error) {
	body, err := json.Marshal(openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		Store:       openai.Bool(req.Store),
	})
	if err != nil {
		return Completion{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	start := time.Now()
	ex, err := c.do(ctx, jsonRequest(http.MethodPost, "/chat/completions", body))
	if err != nil {
		return Completion{}, err
	}
	rtt := time.Since(start)

	completion, err := decodeOne(ex, serialization.ObjectChatCompletion,
		serialization.UnpackChatCompletion(serialization.OpenAIChatCompletionFields))
	if err != nil {
		return Completion{}, err
	}
	completion.Input = req.Prompt
	completion.RTT = rtt

	return completion, nil
}

// ListChatCompletions lists completions that were created with Store set.
// A limit of zero uses the server default.
//
// https://platform.openai.com/docs/api-reference/chat/list
func (c *Client) ListChatCompletions(ctx context.Context, limit int) (serialization.List[Completion], error) {
	ex, err := c.do(ctx, request{method: http.MethodGet, path: "/chat/completions", query: limitQuery(limit)})
	if err != nil {
		return serialization.List[Completion]{}, err
	}
	return decodeList(ex, serialization.ObjectChatCompletion,
		serialization.UnpackChatCompletion(serialization.OpenAIChatCompletionFields))
}

// DeleteChatCompletion deletes a stored chat completion.
//
// https://platform.openai.com/docs/api-reference/chat/delete
func (c *Client) DeleteChatCompletion(ctx context.Context, id string) (Deletion, error) {
	ex, err := c.do(ctx, request{method: http.MethodDelete, path: "/chat/completions/" + url.PathEscape(id)})
	if err != nil {
		return Deletion{}, err
	}
	return decodeOne(ex, serialization.ObjectChatCompletionDeletion, serialization.UnpackChatCompletionDeletion)
}
