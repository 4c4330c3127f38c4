package gptifier

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dsw7/gptifier/internal/serialization"
)

// ListModels lists the models available to the API key, both the ones
// published by the platform and the caller's fine-tuned models.
//
// https://platform.openai.com/docs/api-reference/models/list
func (c *Client) ListModels(ctx context.Context) (serialization.List[Model], error) {
	ex, err := c.do(ctx, request{method: http.MethodGet, path: "/models"})
	if err != nil {
		return serialization.List[Model]{}, err
	}
	return decodeList(ex, serialization.ObjectModel, serialization.UnpackModel)
}

// DeleteModel deletes a fine-tuned model. The caller must own the model.
//
// https://platform.openai.com/docs/api-reference/models/delete
func (c *Client) DeleteModel(ctx context.Context, id string) (Deletion, error) {
	ex, err := c.do(ctx, request{method: http.MethodDelete, path: "/models/" + url.PathEscape(id)})
	if err != nil {
		return Deletion{}, err
	}
	return decodeOne(ex, serialization.ObjectModel, serialization.UnpackDeletion)
}
