package gptifier

import (
	"testing"

	"github.com/shoenig/test/must"
	"github.com/tidwall/gjson"
)

func TestBuildBody(t *testing.T) {
	body, err := buildBody(`{"stream":false}`,
		"model", "llama3.2",
		"messages.0.role", "user",
		"messages.0.content", `say "hi"`,
	)
	must.NoError(t, err)

	doc := gjson.ParseBytes(body)
	must.False(t, doc.Get("stream").Bool())
	must.Eq(t, "llama3.2", doc.Get("model").String())
	must.Eq(t, "user", doc.Get("messages.0.role").String())
	must.Eq(t, `say "hi"`, doc.Get("messages.0.content").String())

	t.Run("every failing path is reported", func(t *testing.T) {
		_, err := buildBody(`{}`, "model", "llama3.2", "", "x")
		must.ErrorContains(t, err, "failed to build request body")
	})
}
