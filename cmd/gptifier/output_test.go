package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/shoenig/test/must"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func TestReadPrompt(t *testing.T) {
	cmd := &cobra.Command{}

	t.Run("inline", func(t *testing.T) {
		p, err := readPrompt(cmd, "  hello  ", "")
		must.NoError(t, err)
		must.Eq(t, "hello", p)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		must.NoError(t, os.WriteFile(path, []byte("from a file\n"), 0o600))

		p, err := readPrompt(cmd, "", path)
		must.NoError(t, err)
		must.Eq(t, "from a file", p)
	})

	t.Run("stdin", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader("piped\n"))

		p, err := readPrompt(cmd, "", "-")
		must.NoError(t, err)
		must.Eq(t, "piped", p)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := readPrompt(cmd, " \n ", "")
		must.ErrorIs(t, err, errEmptyPrompt)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readPrompt(cmd, "", filepath.Join(t.TempDir(), "nope"))
		must.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDeleteAll(t *testing.T) {
	del := func(ctx context.Context, id string) (gptifier.Deletion, error) {
		switch id {
		case "bad":
			return gptifier.Deletion{}, errors.New("No such File object: bad")
		case "kept":
			return gptifier.Deletion{ID: id, Deleted: false}, nil
		}
		return gptifier.Deletion{ID: id, Deleted: true}, nil
	}

	t.Run("all succeed", func(t *testing.T) {
		var out strings.Builder
		must.NoError(t, deleteAll(t.Context(), &out, []string{"a", "b"}, del))
		must.Eq(t, "deleted a\ndeleted b\n", out.String())
	})

	t.Run("keeps going after failures", func(t *testing.T) {
		var out strings.Builder
		err := deleteAll(t.Context(), &out, []string{"bad", "a", "kept", "b"}, del)
		must.EqError(t, err, "failed to delete 2 of 4 objects")
		must.StrContains(t, out.String(), "bad: No such File object: bad")
		must.StrContains(t, out.String(), "deleted a\n")
		must.StrContains(t, out.String(), "kept: server did not delete it")
		must.StrContains(t, out.String(), "deleted b\n")
	})
}

func TestPrintMarkdown_notTerminal(t *testing.T) {
	var out strings.Builder
	must.NoError(t, printMarkdown(&out, "# Title\n\n*text*"))
	must.Eq(t, "# Title\n\n*text*\n", out.String())
}

func TestPrintRaw(t *testing.T) {
	var out strings.Builder
	must.NoError(t, printRaw(&out, `{"object":"list","data":[]}`))
	must.Eq(t, "{\n  \"object\": \"list\",\n  \"data\": []\n}\n", out.String())
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("**bold** words", 40)
	must.NoError(t, err)
	must.StrContains(t, out, "bold")
	must.StrContains(t, out, "words")
}

func TestFormatCostTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		must.Eq(t, "No cost data found.\n", formatCostTable(gptifier.Costs{}))
	})

	t.Run("rows and total", func(t *testing.T) {
		table := formatCostTable(gptifier.Costs{
			Buckets: []gptifier.CostBucket{
				{Cost: 0.5, OrganizationID: "org-1", StartTime: 1721692800, EndTime: 1721779200},
				{Cost: 2.25, StartTime: 1721779200, EndTime: 1721865600},
			},
			Total: 2.75,
		})

		lines := strings.Split(strings.TrimSuffix(table, "\n"), "\n")
		must.SliceLen(t, 6, lines)
		must.StrHasPrefix(t, "START", lines[0])
		must.StrContains(t, lines[2], "2024-07-23 00:00:00")
		must.StrContains(t, lines[2], "org-1")
		must.StrContains(t, lines[2], "0.500000")
		must.StrContains(t, lines[3], "(none)")
		must.Eq(t, fmt.Sprintf("%74s %12.6f", "TOTAL:", 2.75), lines[5])
	})
}

func TestDailyCosts(t *testing.T) {
	days := dailyCosts([]gptifier.CostBucket{
		{Cost: 1, StartTime: 0},
		{Cost: 0.5, StartTime: 0},
		{Cost: 2, StartTime: 86400},
		{Cost: 0.25, StartTime: 172800},
		{Cost: 0.25, StartTime: 172800},
	})
	must.Eq(t, []float64{1.5, 2, 0.5}, days)

	must.SliceEmpty(t, dailyCosts(nil))
}

func TestCostsStart(t *testing.T) {
	now := time.Date(2024, 7, 23, 21, 0, 0, 0, time.UTC)
	must.Eq(t, time.Date(2024, 7, 23, 0, 0, 0, 0, time.UTC), costsStart(now, 1))
	must.Eq(t, time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC), costsStart(now, 30))

	// Local times are reported against the UTC day.
	tokyo := time.FixedZone("JST", 9*60*60)
	must.Eq(t, time.Date(2024, 7, 23, 0, 0, 0, 0, time.UTC), costsStart(time.Date(2024, 7, 24, 2, 0, 0, 0, tokyo), 1))
}

func TestSplitModels(t *testing.T) {
	platformModels, userModels := splitModels([]gptifier.Model{
		{ID: "gpt-4o", CreatedAt: 30, Owner: "system", OwnedByPlatform: true},
		{ID: "ft:gpt-4o-mini:acme::b", CreatedAt: 50, Owner: "acme"},
		{ID: "dall-e-3", CreatedAt: 10, Owner: "system", OwnedByPlatform: true},
		{ID: "ft:gpt-4o-mini:acme::a", CreatedAt: 40, Owner: "acme"},
		{ID: "babbage-002", CreatedAt: 10, Owner: "openai", OwnedByPlatform: true},
	})

	ids := func(models []gptifier.Model) []string {
		var out []string
		for _, m := range models {
			out = append(out, m.ID)
		}
		return out
	}
	must.Eq(t, []string{"babbage-002", "dall-e-3", "gpt-4o"}, ids(platformModels))
	must.Eq(t, []string{"ft:gpt-4o-mini:acme::a", "ft:gpt-4o-mini:acme::b"}, ids(userModels))
}

func TestPreview(t *testing.T) {
	must.Eq(t, "short", preview("short", 10))
	must.Eq(t, "two lines", preview("two\n  lines", 10))
	must.Eq(t, "abcd…", preview("abcdefgh", 5))
	must.Eq(t, "héll…", preview("héllo wörld", 5))
}

func TestEmbeddingDocument(t *testing.T) {
	b, err := embeddingDocument(gptifier.Embedding{
		Input:  "hello",
		Model:  "text-embedding-3-small",
		Vector: []float64{0.25, -0.5, 1},
	})
	must.NoError(t, err)

	doc := gjson.ParseBytes(b)
	must.Eq(t, "hello", doc.Get("input").String())
	must.Eq(t, "text-embedding-3-small", doc.Get("model").String())
	must.Eq(t, int64(3), doc.Get("dimensions").Int())
	must.Eq(t, -0.5, doc.Get("embedding.1").Float())
}

func TestWriteImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	path, err := writeImage(dir, gptifier.Image{Data: []byte("\x89PNG"), Created: 1721768400})
	must.NoError(t, err)
	must.Eq(t, filepath.Join(dir, "gptifier-1721768400.png"), path)

	b, err := os.ReadFile(path)
	must.NoError(t, err)
	must.Eq(t, []byte("\x89PNG"), b)
}
