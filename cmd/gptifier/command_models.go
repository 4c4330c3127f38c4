package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/spf13/cobra"
)

var modelsRaw bool

var modelsCommand = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		list, err := busy(cmd, "Listing models", func() (serialization.List[gptifier.Model], error) {
			return c.ListModels(cmd.Context())
		})
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		if modelsRaw {
			return printRaw(cmd.OutOrStdout(), list.Raw)
		}
		printModels(cmd.OutOrStdout(), list.Items)
		return nil
	},
}

var modelsDeleteCommand = &cobra.Command{
	Use:   "delete <model-id>...",
	Short: "Delete fine-tuned models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}
		return deleteAll(cmd.Context(), cmd.OutOrStdout(), args, c.DeleteModel)
	},
}

func init() {
	modelsCommand.Flags().BoolVarP(&modelsRaw, "raw", "r", false, "print the raw JSON response")

	modelsCommand.AddCommand(modelsDeleteCommand)
	rootCmd.AddCommand(modelsCommand)
}

// splitModels separates platform models from models owned by a user or
// organization, each ordered by creation time.
func splitModels(models []gptifier.Model) (platformModels, userModels []gptifier.Model) {
	for _, m := range models {
		if m.OwnedByPlatform {
			platformModels = append(platformModels, m)
		} else {
			userModels = append(userModels, m)
		}
	}

	byCreation := func(a, b gptifier.Model) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.ID, b.ID))
	}
	slices.SortFunc(platformModels, byCreation)
	slices.SortFunc(userModels, byCreation)
	return platformModels, userModels
}

func printModels(w io.Writer, models []gptifier.Model) {
	platformModels, userModels := splitModels(models)

	for _, group := range []struct {
		title  string
		models []gptifier.Model
	}{
		{"Models owned by OpenAI", platformModels},
		{"User models", userModels},
	} {
		fmt.Fprintln(w, styleHeader.Render(group.title))
		if len(group.models) == 0 {
			fmt.Fprintln(w, styleFaint.Render("None"))
			fmt.Fprintln(w)
			continue
		}

		t := newTable("CREATED", "OWNER", "MODEL ID")
		for _, m := range group.models {
			t.Row(serialization.FormatTimestamp(m.CreatedAt), m.Owner, m.ID)
		}
		fmt.Fprintln(w, t.String())
		fmt.Fprintln(w)
	}
}
