package gptifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/openai/openai-go"
)

// CreateFineTuningJob starts a fine-tuning job on a previously uploaded
// training file.
//
// https://platform.openai.com/docs/api-reference/fine-tuning/create
func (c *Client) CreateFineTuningJob(ctx context.Context, trainingFile, model string) (FineTuningJob, error) {
	body, err := json.Marshal(openai.FineTuningJobNewParams{
		Model:        openai.FineTuningJobNewParamsModel(model),
		TrainingFile: trainingFile,
	})
	if err != nil {
		return FineTuningJob{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	ex, err := c.do(ctx, jsonRequest(http.MethodPost, "/fine_tuning/jobs", body))
	if err != nil {
		return FineTuningJob{}, err
	}
	return decodeOne(ex, serialization.ObjectFineTuningJob, serialization.UnpackFineTuningJob)
}

// ListFineTuningJobs lists the organization's fine-tuning jobs, most recent
// first. A limit of zero uses the server default.
//
// https://platform.openai.com/docs/api-reference/fine-tuning/list
func (c *Client) ListFineTuningJobs(ctx context.Context, limit int) (serialization.List[FineTuningJob], error) {
	ex, err := c.do(ctx, request{method: http.MethodGet, path: "/fine_tuning/jobs", query: limitQuery(limit)})
	if err != nil {
		return serialization.List[FineTuningJob]{}, err
	}
	return decodeList(ex, serialization.ObjectFineTuningJob, serialization.UnpackFineTuningJob)
}
