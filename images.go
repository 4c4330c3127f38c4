package gptifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/openai/openai-go"
)

// ImageRequest describes an image to generate. Empty fields use the
// server defaults for the model.
type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
	Style   string
}

// CreateImage generates one image and returns its decoded bytes.
//
// https://platform.openai.com/docs/api-reference/images/create
func (c *Client) CreateImage(ctx context.Context, req ImageRequest) (Image, error) {
	body, err := json.Marshal(openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(req.Model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(req.Size),
		Quality:        openai.ImageGenerateParamsQuality(req.Quality),
		Style:          openai.ImageGenerateParamsStyle(req.Style),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return Image{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	ex, err := c.do(ctx, jsonRequest(http.MethodPost, "/images/generations", body))
	if err != nil {
		return Image{}, err
	}
	return decodeOne(ex, serialization.ObjectNone, serialization.UnpackImage)
}
