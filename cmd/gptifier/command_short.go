package main

import (
	"fmt"
	"strings"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/history"
	"github.com/spf13/cobra"
)

var shortFlags struct {
	local bool
	json  bool
	store bool
	model string
}

var shortCommand = &cobra.Command{
	Use:   "short <prompt>",
	Short: "Ask a quick question with the chat completions API or a local model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			return errEmptyPrompt
		}

		var (
			completion gptifier.Completion
			source     history.Source
			err        error
		)
		if shortFlags.local {
			model := cfg.Ollama.Model
			if shortFlags.model != "" {
				model = shortFlags.model
			}
			source = history.SourceOllama
			completion, err = busy(cmd, "Thinking", func() (gptifier.Completion, error) {
				return ollama.Chat(cmd.Context(), prompt, model)
			})
		} else {
			c, perr := platform()
			if perr != nil {
				return perr
			}
			req := gptifier.ChatRequest{
				Prompt:      prompt,
				Model:       cfg.Chat.Model,
				Temperature: cfg.Chat.Temperature,
				Store:       shortFlags.store,
			}
			if shortFlags.model != "" {
				req.Model = shortFlags.model
			}
			source = history.SourceChat
			completion, err = busy(cmd, "Thinking", func() (gptifier.Completion, error) {
				return c.CreateChatCompletion(cmd.Context(), req)
			})
		}
		if err != nil {
			return fmt.Errorf("failed to create completion: %w", err)
		}

		remember(cmd, source, completion, false)

		if shortFlags.json {
			return printRaw(cmd.OutOrStdout(), completion.Raw)
		}
		return printCompletion(cmd.OutOrStdout(), completion)
	},
}

func init() {
	f := shortCommand.Flags()
	f.BoolVarP(&shortFlags.local, "local", "l", false, "use the local Ollama server")
	f.BoolVarP(&shortFlags.json, "json", "j", false, "print the raw JSON response")
	f.BoolVar(&shortFlags.store, "store", false, "store the completion on the platform so it shows up in chats")
	f.StringVarP(&shortFlags.model, "model", "m", "", "the model to use (default from config)")

	shortCommand.MarkFlagsMutuallyExclusive("local", "store")

	rootCmd.AddCommand(shortCommand)
}
