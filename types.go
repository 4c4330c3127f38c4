package gptifier

import "github.com/dsw7/gptifier/internal/serialization"

// Records returned by the client. They are defined next to their unpackers
// and re-exported here so callers need a single import.
type (
	Model         = serialization.Model
	File          = serialization.File
	FineTuningJob = serialization.FineTuningJob
	User          = serialization.User
	Completion    = serialization.Completion
	Deletion      = serialization.Deletion
	Embedding     = serialization.Embedding
	Image         = serialization.Image
	CostBucket    = serialization.CostBucket
	Costs         = serialization.Costs
)
