package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/history"
	"github.com/spf13/cobra"
)

var runFlags struct {
	prompt      string
	file        string
	model       string
	temperature float64
	json        bool
	output      string
	save        bool
}

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Generate text with the responses API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		prompt, err := readPrompt(cmd, runFlags.prompt, runFlags.file)
		if err != nil {
			return err
		}

		req := gptifier.ResponseRequest{
			Prompt:      prompt,
			Model:       cfg.Responses.Model,
			Temperature: cfg.Chat.Temperature,
		}
		if runFlags.model != "" {
			req.Model = runFlags.model
		}
		if cmd.Flags().Changed("temperature") {
			req.Temperature = runFlags.temperature
		}

		completion, err := busy(cmd, "Generating", func() (gptifier.Completion, error) {
			return c.CreateResponse(cmd.Context(), req)
		})
		if err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}

		remember(cmd, history.SourceResponses, completion, runFlags.save)

		if runFlags.output != "" {
			if err := os.WriteFile(runFlags.output, []byte(completion.Output), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}

		if runFlags.json {
			return printRaw(cmd.OutOrStdout(), completion.Raw)
		}
		return printCompletion(cmd.OutOrStdout(), completion)
	},
}

func init() {
	f := runCommand.Flags()
	f.StringVarP(&runFlags.prompt, "prompt", "p", "", "the prompt to send")
	f.StringVarP(&runFlags.file, "read-from-file", "r", "", "read the prompt from a file (- for stdin)")
	f.StringVarP(&runFlags.model, "model", "m", "", "the model to use (default from config)")
	f.Float64VarP(&runFlags.temperature, "temperature", "t", 1.0, "sampling temperature between 0 and 2")
	f.BoolVarP(&runFlags.json, "json", "j", false, "print the raw JSON response")
	f.StringVarP(&runFlags.output, "output", "o", "", "also write the output text to a file")
	f.BoolVar(&runFlags.save, "save", false, "save to history even when history is disabled")

	runCommand.MarkFlagsOneRequired("prompt", "read-from-file")
	runCommand.MarkFlagsMutuallyExclusive("prompt", "read-from-file")

	rootCmd.AddCommand(runCommand)
}

// printCompletion writes the output text followed by a one-line summary of
// the exchange.
func printCompletion(w io.Writer, c gptifier.Completion) error {
	if err := printMarkdown(w, c.Output); err != nil {
		return err
	}

	summary := fmt.Sprintf("%s · %d input tokens · %d output tokens", c.Model, c.InputTokens, c.OutputTokens)
	if c.RTT > 0 {
		summary += " · " + c.RTT.Round(time.Millisecond).String()
	}
	_, err := fmt.Fprintln(w, styleFaint.Render(summary))
	return err
}
