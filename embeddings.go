package gptifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/openai/openai-go"
)

// CreateEmbedding embeds a single input text.
//
// https://platform.openai.com/docs/api-reference/embeddings/create
func (c *Client) CreateEmbedding(ctx context.Context, input, model string) (Embedding, error) {
	body, err := json.Marshal(openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(input),
		},
		Model:          openai.EmbeddingModel(model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return Embedding{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	ex, err := c.do(ctx, jsonRequest(http.MethodPost, "/embeddings", body))
	if err != nil {
		return Embedding{}, err
	}

	doc, err := ex.open(serialization.BackendOpenAI)
	if err != nil {
		return Embedding{}, err
	}
	if err := serialization.ExpectListOf(doc, serialization.ObjectEmbedding); err != nil {
		return Embedding{}, err
	}

	e, err := serialization.UnpackEmbedding(serialization.OpenAIEmbeddingFields)(doc)
	if err != nil {
		return Embedding{}, err
	}
	e.Input = input

	return e, nil
}
