package responses_test

import (
	"encoding/json"
	"testing"

	"github.com/dsw7/gptifier/internal/responses"
	"github.com/shoenig/test/must"
)

func TestRequest_textInput(t *testing.T) {
	temperature := 0.5

	b, err := json.Marshal(responses.Request{
		Model:       "gpt-4o",
		Input:       responses.Text("Hey there!"),
		Temperature: &temperature,
	})
	must.NoError(t, err)
	must.Eq(t, `{"model":"gpt-4o","input":"Hey there!","temperature":0.5}`, string(b))
}

func TestRequest_messageInput(t *testing.T) {
	store := false

	b, err := json.Marshal(responses.Request{
		Model: "o3-mini",
		Input: responses.Messages{
			{Role: responses.RoleDeveloper, Content: responses.Text("Answer in one word.")},
			{Role: responses.RoleUser, Content: responses.Parts{{Text: "How much wood would a woodchuck chuck?"}}},
		},
		Reasoning:  &responses.Reasoning{Effort: "high"},
		Store:      &store,
		Truncation: responses.TruncationAuto,
	})
	must.NoError(t, err)
	must.Eq(t, `{"model":"o3-mini","input":[`+
		`{"type":"message","role":"developer","content":"Answer in one word."},`+
		`{"type":"message","role":"user","content":[{"type":"input_text","text":"How much wood would a woodchuck chuck?"}]}`+
		`],"reasoning":{"effort":"high"},"store":false,"truncation":"auto"}`, string(b))
}
