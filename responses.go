package gptifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dsw7/gptifier/internal/responses"
	"github.com/dsw7/gptifier/internal/serialization"
)

// ResponseRequest is a single-turn request to the responses API.
type ResponseRequest struct {
	Prompt      string
	Model       string
	Temperature float64
}

// CreateResponse generates text with the responses API. The output text is
// the concatenation of every output_text part of the response.
//
// https://platform.openai.com/docs/api-reference/responses/create
func (c *Client) CreateResponse(ctx context.Context, req ResponseRequest) (Completion, error) {
	store := false

	body, err := json.Marshal(responses.Request{
		Model:       req.Model,
		Input:       responses.Text(req.Prompt),
		Temperature: &req.Temperature,
		Store:       &store,
	})
	if err != nil {
		return Completion{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	start := time.Now()
	ex, err := c.do(ctx, jsonRequest(http.MethodPost, "/responses", body))
	if err != nil {
		return Completion{}, err
	}
	rtt := time.Since(start)

	completion, err := decodeOne(ex, serialization.ObjectResponse, serialization.UnpackResponse)
	if err != nil {
		return Completion{}, err
	}
	completion.Input = req.Prompt
	completion.RTT = rtt

	return completion, nil
}
