package serialization

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Sentinel is shown for display-only fields whose value is not known yet,
// such as the finish time of a running fine-tuning job.
const Sentinel = "-"

// TimestampLayout is the UTC layout used when a timestamp is rendered.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders Unix seconds in UTC using TimestampLayout.
func FormatTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(TimestampLayout)
}

// platformOwners are the owned_by prefixes of models published by the
// platform itself, as opposed to fine-tuned models owned by a user or
// organization.
var platformOwners = []string{"openai", "system"}

// Model is an entry of the models endpoint.
type Model struct {
	ID              string `json:"id"`
	CreatedAt       int64  `json:"created_at"`
	Owner           string `json:"owner"`
	OwnedByPlatform bool   `json:"owned_by_platform"`
}

func isPlatformOwner(owner string) bool {
	for _, p := range platformOwners {
		if strings.HasPrefix(owner, p) {
			return true
		}
	}
	return false
}

// File describes an uploaded file.
type File struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	CreatedAt int64  `json:"created_at"`
	Purpose   string `json:"purpose"`
	Bytes     int64  `json:"bytes"`
}

// FineTuningJob describes a fine-tuning job. FinishedAt and EstimatedFinish
// are display strings, set to Sentinel until the server reports a value.
type FineTuningJob struct {
	ID              string `json:"id"`
	CreatedAt       int64  `json:"created_at"`
	FinishedAt      string `json:"finished_at"`
	EstimatedFinish string `json:"estimated_finish"`
	Model           string `json:"model"`
	Status          string `json:"status"`
}

// User is a member of an organization.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	AddedAt int64  `json:"added_at"`
}

// Completion is the result of a text generation request, whether it came
// from the chat completions API, the responses API or a local Ollama server.
//
// Input and RTT are not part of the payload; the caller fills them in.
type Completion struct {
	ID           string        `json:"id"`
	Created      int64         `json:"created"`
	Model        string        `json:"model"`
	Input        string        `json:"input"`
	Output       string        `json:"output"`
	InputTokens  int64         `json:"input_tokens"`
	OutputTokens int64         `json:"output_tokens"`
	RTT          time.Duration `json:"rtt"`

	// Raw is the untouched server payload.
	Raw string `json:"-"`
}

// Deletion is the acknowledgement returned when deleting a file, a model
// or a stored chat completion.
type Deletion struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Embedding is a vector representation of Input.
type Embedding struct {
	Input  string    `json:"input"`
	Model  string    `json:"model"`
	Vector []float64 `json:"embedding"`
}

// Image is a generated image, decoded from its base64 transport encoding.
type Image struct {
	Data          []byte `json:"-"`
	Created       int64  `json:"created"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// CostBucket is the cost incurred by an organization over one time bucket.
type CostBucket struct {
	Cost           float64 `json:"cost"`
	OrganizationID string  `json:"organization_id"`
	StartTime      int64   `json:"start_time"`
	EndTime        int64   `json:"end_time"`
}

// Costs is the unpacked costs page.
type Costs struct {
	// Buckets are in wire order.
	Buckets []CostBucket

	// Total is the sum of every bucket's cost.
	Total float64

	Raw string
}

// SortCostBuckets orders buckets by ascending start time. Buckets with the
// same start time keep their relative order.
func SortCostBuckets(buckets []CostBucket) {
	slices.SortStableFunc(buckets, func(a, b CostBucket) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
}

// List is a typed collection together with the raw payload it came from,
// since callers may ask for either.
type List[T any] struct {
	Items []T
	Raw   string
}
