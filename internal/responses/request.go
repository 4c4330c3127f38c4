package responses

import (
	"encoding/json"
)

// Request is the body of a create-response call.
type Request struct {
	// https://platform.openai.com/docs/api-reference/responses/create#responses-create-model
	Model string `json:"model"`

	// Text or message inputs to the model.
	//
	// https://platform.openai.com/docs/api-reference/responses/create#responses-create-input
	Input Input `json:"input"`

	// Inserts a system (or developer) message as the first item in the model's context.
	Instructions string `json:"instructions,omitzero"`

	// Upper bound for the number of generated tokens, reasoning tokens included.
	MaxOutputTokens uint64 `json:"max_output_tokens,omitzero"`

	Metadata map[string]string `json:"metadata,omitempty"`

	Reasoning *Reasoning `json:"reasoning,omitempty"`

	// Whether the response is kept for later retrieval. The server
	// defaults to true when this is omitted.
	Store *bool `json:"store,omitempty"`

	// Sampling temperature between 0 and 2. Nil uses the model default.
	Temperature *float64 `json:"temperature,omitempty"`

	TopP *float64 `json:"top_p,omitempty"`

	Truncation Truncation `json:"truncation,omitzero"`

	// The ID of the previous response, to continue a conversation.
	PreviousResponseID string `json:"previous_response_id,omitzero"`
}

// Input is either a plain Text or a list of Messages.
type Input interface {
	isInput()
}

// Text is a plain string input, equivalent to a single user message.
type Text string

func (Text) isInput()          {}
func (Text) isMessageContent() {}

// Messages is a list input.
type Messages []Message

func (Messages) isInput() {}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
)

// MessageContent is either a Text or a list of InputText parts.
type MessageContent interface {
	isMessageContent()
}

// Parts is a multi-part message content.
type Parts []InputText

func (Parts) isMessageContent() {}

type Message struct {
	Role    Role           `json:"role"`
	Content MessageContent `json:"content"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{
		Type:  "message",
		alias: alias(m),
	})
}

type InputText struct {
	Text string `json:"text"`
}

func (it InputText) MarshalJSON() ([]byte, error) {
	type alias InputText
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{
		Type:  "input_text",
		alias: alias(it),
	})
}

// Reasoning configures reasoning models.
//
// https://platform.openai.com/docs/api-reference/responses/create#responses-create-reasoning
type Reasoning struct {
	// One of "low", "medium" or "high".
	Effort string `json:"effort,omitzero"`
}

type Truncation string

const (
	TruncationAuto     Truncation = "auto"
	TruncationDisabled Truncation = "disabled"
)
