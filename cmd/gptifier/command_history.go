package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/history"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Show completions saved locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())

		records, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, styleFaint.Render("No history yet."))
			return nil
		}

		for _, rec := range records {
			fmt.Fprintf(out, "%s %s %s\n",
				styleBold.Render(serialization.FormatTimestamp(rec.Created)),
				styleFaint.Render(string(rec.Source)),
				rec.Model,
			)
			fmt.Fprintf(out, "> %s\n", rec.Prompt)
			if err := printMarkdown(out, rec.Output); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var historyClearCommand = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved completion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s records.\n", numberColor.Render(strconv.Itoa(n)))
		return nil
	},
}

func init() {
	historyCommand.Flags().IntVarP(&historyLimit, "number", "n", 10, "number of records to show (0 shows all)")

	historyCommand.AddCommand(historyClearCommand)
	rootCmd.AddCommand(historyCommand)
}

func openHistory() (*history.Store, error) {
	dir, err := cfg.HistoryDir()
	if err != nil {
		return nil, err
	}

	store, err := history.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// remember saves c to the local history when history is enabled or force
// is set. Failing to save is logged, not returned: the completion has
// already been shown.
func remember(cmd *cobra.Command, source history.Source, c gptifier.Completion, force bool) {
	if !cfg.History.Enabled && !force {
		return
	}

	rec := history.FromCompletion(source, c)
	if rec.Created == 0 {
		rec.Created = time.Now().Unix()
	}

	store, err := openHistory()
	if err != nil {
		logger.Warn().Err(err).Msg("history not saved")
		return
	}
	defer store.Close(cmd.Context())

	rec, err = store.Add(cmd.Context(), rec)
	if err != nil {
		logger.Warn().Err(err).Msg("history not saved")
		return
	}
	logger.Debug().Str("key", rec.Key).Msg("history saved")
}
