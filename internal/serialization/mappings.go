package serialization

// CompletionFields maps a backend's chat payload onto a Completion.
type CompletionFields struct {
	ID           string // empty when the backend does not issue ids
	Created      string
	Model        string
	Output       string
	InputTokens  string
	OutputTokens string

	// CreatedRFC3339 is set when Created is an RFC 3339 string rather
	// than Unix seconds.
	CreatedRFC3339 bool

	// TokensOptional is set when the backend may omit token counts.
	TokensOptional bool
}

// EmbeddingFields maps a backend's embedding payload onto an Embedding.
type EmbeddingFields struct {
	Model  string
	Vector string
}

var (
	// https://platform.openai.com/docs/api-reference/chat/object
	OpenAIChatCompletionFields = CompletionFields{
		ID:           "id",
		Created:      "created",
		Model:        "model",
		Output:       "choices.0.message.content",
		InputTokens:  "usage.prompt_tokens",
		OutputTokens: "usage.completion_tokens",
	}

	// https://github.com/ollama/ollama/blob/main/docs/api.md#generate-a-chat-completion
	//
	// prompt_eval_count is left out when the prompt was served from cache.
	OllamaChatFields = CompletionFields{
		Created:        "created_at",
		CreatedRFC3339: true,
		Model:          "model",
		Output:         "message.content",
		InputTokens:    "prompt_eval_count",
		OutputTokens:   "eval_count",
		TokensOptional: true,
	}

	// https://platform.openai.com/docs/api-reference/embeddings/object
	OpenAIEmbeddingFields = EmbeddingFields{
		Model:  "model",
		Vector: "data.0.embedding",
	}

	// https://github.com/ollama/ollama/blob/main/docs/api.md#generate-embeddings
	OllamaEmbeddingFields = EmbeddingFields{
		Model:  "model",
		Vector: "embeddings.0",
	}
)
