package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/spf13/cobra"
)

// previewWidth is the number of runes of output shown per stored chat.
const previewWidth = 48

var chatsFlags struct {
	limit int
	raw   bool
}

var chatsCommand = &cobra.Command{
	Use:   "chats",
	Short: "List chat completions stored on the platform",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		list, err := busy(cmd, "Listing chats", func() (serialization.List[gptifier.Completion], error) {
			return c.ListChatCompletions(cmd.Context(), chatsFlags.limit)
		})
		if err != nil {
			return fmt.Errorf("failed to list chat completions: %w", err)
		}

		if chatsFlags.raw {
			return printRaw(cmd.OutOrStdout(), list.Raw)
		}
		printChats(cmd.OutOrStdout(), list.Items)
		return nil
	},
}

var chatsDeleteCommand = &cobra.Command{
	Use:   "delete <completion-id>...",
	Short: "Delete stored chat completions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}
		return deleteAll(cmd.Context(), cmd.OutOrStdout(), args, c.DeleteChatCompletion)
	},
}

func init() {
	chatsCommand.Flags().IntVarP(&chatsFlags.limit, "limit", "l", 20, "maximum number of completions to list")
	chatsCommand.Flags().BoolVarP(&chatsFlags.raw, "raw", "r", false, "print the raw JSON response")

	chatsCommand.AddCommand(chatsDeleteCommand)
	rootCmd.AddCommand(chatsCommand)
}

func printChats(w io.Writer, chats []gptifier.Completion) {
	if len(chats) == 0 {
		fmt.Fprintln(w, styleFaint.Render("No stored chat completions found."))
		return
	}

	t := newTable("CREATED", "MODEL", "OUTPUT", "COMPLETION ID")
	for _, c := range chats {
		t.Row(serialization.FormatTimestamp(c.Created), c.Model, preview(c.Output, previewWidth), c.ID)
	}
	fmt.Fprintln(w, t.String())
}

// preview flattens s onto one line and cuts it to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
