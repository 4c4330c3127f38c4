package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/embeddings"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var embedFlags struct {
	input   string
	file    string
	model   string
	output  string
	compare string
	local   bool
}

var embedCommand = &cobra.Command{
	Use:   "embed",
	Short: "Embed text and optionally compare it with another text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readPrompt(cmd, embedFlags.input, embedFlags.file)
		if err != nil {
			return err
		}

		embed, model, err := embedder()
		if err != nil {
			return err
		}

		e, err := busy(cmd, "Embedding", func() (gptifier.Embedding, error) {
			return embed(cmd.Context(), input, model)
		})
		if err != nil {
			return fmt.Errorf("failed to create embedding: %w", err)
		}

		out := cmd.OutOrStdout()

		if embedFlags.output != "" {
			b, err := embeddingDocument(e)
			if err != nil {
				return err
			}
			if err := os.WriteFile(embedFlags.output, b, 0o644); err != nil {
				return fmt.Errorf("failed to write embedding: %w", err)
			}
			fmt.Fprintf(out, "Wrote %s\n", styleBold.Render(embedFlags.output))
		} else {
			printEmbeddingSummary(out, e)
		}

		if embedFlags.compare == "" {
			return nil
		}

		other, err := busy(cmd, "Embedding", func() (gptifier.Embedding, error) {
			return embed(cmd.Context(), embedFlags.compare, model)
		})
		if err != nil {
			return fmt.Errorf("failed to create comparison embedding: %w", err)
		}

		cmp, err := embeddings.Compare(e.Vector, other.Vector)
		if err != nil {
			return fmt.Errorf("failed to compare embeddings: %w", err)
		}

		t := newTable("METRIC", "VALUE").Rows(
			[]string{"cosine similarity", strconv.FormatFloat(cmp.Cosine, 'f', 6, 64)},
			[]string{"euclidean distance", strconv.FormatFloat(cmp.Euclidean, 'f', 6, 64)},
			[]string{"manhattan distance", strconv.FormatFloat(cmp.Manhattan, 'f', 6, 64)},
		)
		fmt.Fprintln(out, t.String())
		return nil
	},
}

func init() {
	f := embedCommand.Flags()
	f.StringVarP(&embedFlags.input, "input", "i", "", "the text to embed")
	f.StringVarP(&embedFlags.file, "read-from-file", "r", "", "read the text from a file (- for stdin)")
	f.StringVarP(&embedFlags.model, "model", "m", "", "the model to use (default from config)")
	f.StringVarP(&embedFlags.output, "output", "o", "", "write the embedding as JSON to a file")
	f.StringVar(&embedFlags.compare, "compare", "", "also embed this text and compare the two")
	f.BoolVarP(&embedFlags.local, "local", "l", false, "use the local Ollama server")

	embedCommand.MarkFlagsOneRequired("input", "read-from-file")
	embedCommand.MarkFlagsMutuallyExclusive("input", "read-from-file")

	rootCmd.AddCommand(embedCommand)
}

type embedFunc func(ctx context.Context, input, model string) (gptifier.Embedding, error)

func embedder() (embedFunc, string, error) {
	if embedFlags.local {
		model := cfg.Ollama.EmbeddingModel
		if embedFlags.model != "" {
			model = embedFlags.model
		}
		return ollama.Embed, model, nil
	}

	c, err := platform()
	if err != nil {
		return nil, "", err
	}
	model := cfg.Embeddings.Model
	if embedFlags.model != "" {
		model = embedFlags.model
	}
	return c.CreateEmbedding, model, nil
}

// embeddingDocument is the JSON written by embed --output.
func embeddingDocument(e gptifier.Embedding) ([]byte, error) {
	b := []byte(`{}`)
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"model", e.Model},
		{"input", e.Input},
		{"dimensions", len(e.Vector)},
		{"embedding", e.Vector},
	} {
		var err error
		b, err = sjson.SetBytes(b, kv.path, kv.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", kv.path, err)
		}
	}
	return b, nil
}

func printEmbeddingSummary(w io.Writer, e gptifier.Embedding) {
	fmt.Fprintf(w, "%s %s\n", styleBold.Render("Model:"), e.Model)
	fmt.Fprintf(w, "%s %s\n", styleBold.Render("Dimensions:"), numberColor.Render(strconv.Itoa(len(e.Vector))))

	head := e.Vector
	if len(head) > 5 {
		head = head[:5]
	}
	fmt.Fprintf(w, "%s %v", styleBold.Render("Vector:"), head)
	if len(e.Vector) > len(head) {
		fmt.Fprint(w, styleFaint.Render(" ..."))
	}
	fmt.Fprintln(w)
}
