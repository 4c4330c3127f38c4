package main

import (
	"fmt"
	"io"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/spf13/cobra"
)

var usersFlags struct {
	limit int
	raw   bool
}

var usersCommand = &cobra.Command{
	Use:   "users",
	Short: "List the members of the organization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		list, err := busy(cmd, "Listing users", func() (serialization.List[gptifier.User], error) {
			return c.ListUsers(cmd.Context(), usersFlags.limit)
		})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if usersFlags.raw {
			return printRaw(cmd.OutOrStdout(), list.Raw)
		}
		printUsers(cmd.OutOrStdout(), list.Items)
		return nil
	},
}

func init() {
	usersCommand.Flags().IntVarP(&usersFlags.limit, "limit", "l", 0, "maximum number of users to list (0 uses the server default)")
	usersCommand.Flags().BoolVarP(&usersFlags.raw, "raw", "r", false, "print the raw JSON response")

	rootCmd.AddCommand(usersCommand)
}

func printUsers(w io.Writer, users []gptifier.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, styleFaint.Render("No users found."))
		return
	}

	t := newTable("NAME", "EMAIL", "ROLE", "ADDED", "USER ID")
	for _, u := range users {
		t.Row(u.Name, u.Email, u.Role, serialization.FormatTimestamp(u.AddedAt), u.ID)
	}
	fmt.Fprintln(w, t.String())
}
