package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/spf13/cobra"
)

var filesRaw bool

var filesCommand = &cobra.Command{
	Use:   "files",
	Short: "List uploaded files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		list, err := busy(cmd, "Listing files", func() (serialization.List[gptifier.File], error) {
			return c.ListFiles(cmd.Context())
		})
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}

		if filesRaw {
			return printRaw(cmd.OutOrStdout(), list.Raw)
		}
		printFiles(cmd.OutOrStdout(), list.Items)
		return nil
	},
}

var filesDeleteCommand = &cobra.Command{
	Use:   "delete <file-id>...",
	Short: "Delete uploaded files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}
		return deleteAll(cmd.Context(), cmd.OutOrStdout(), args, c.DeleteFile)
	},
}

func init() {
	filesCommand.Flags().BoolVarP(&filesRaw, "raw", "r", false, "print the raw JSON response")

	filesCommand.AddCommand(filesDeleteCommand)
	rootCmd.AddCommand(filesCommand)
}

func printFiles(w io.Writer, files []gptifier.File) {
	if len(files) == 0 {
		fmt.Fprintln(w, styleFaint.Render("No files found."))
		return
	}

	t := newTable("FILE ID", "FILENAME", "CREATED", "PURPOSE", "BYTES")
	for _, f := range files {
		t.Row(f.ID, f.Filename, serialization.FormatTimestamp(f.CreatedAt), f.Purpose, strconv.FormatInt(f.Bytes, 10))
	}
	fmt.Fprintln(w, t.String())
}
