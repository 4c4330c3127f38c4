package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/spinner"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"golang.org/x/term"
)

const defaultWidth = 80

var errEmptyPrompt = errors.New("prompt is empty")

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

func renderMarkdown(s string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(s)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return out, nil
}

// printMarkdown renders s on terminals and writes it untouched otherwise,
// so piped output stays greppable.
func printMarkdown(w io.Writer, s string) error {
	if !isTerminal(w) {
		_, err := fmt.Fprintln(w, s)
		return err
	}

	out, err := renderMarkdown(s, terminalWidth(w))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// printRaw pretty prints a raw JSON payload, in color on terminals.
func printRaw(w io.Writer, raw string) error {
	b := pretty.Pretty([]byte(raw))
	if isTerminal(w) {
		b = pretty.Color(b, nil)
	}
	_, err := w.Write(b)
	return err
}

// busy runs fn behind a spinner when stderr is a terminal.
func busy[T any](cmd *cobra.Command, label string, fn func() (T, error)) (T, error) {
	var w io.Writer
	if errOut := cmd.ErrOrStderr(); isTerminal(errOut) {
		w = errOut
	}
	return spinner.While(w, label, fn)
}

// readPrompt returns the prompt given inline or, when path is set, read
// from a file. A path of "-" reads standard input.
func readPrompt(cmd *cobra.Command, prompt, path string) (string, error) {
	if path != "" {
		var (
			b   []byte
			err error
		)
		if path == "-" {
			b, err = io.ReadAll(cmd.InOrStdin())
		} else {
			b, err = os.ReadFile(path)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read prompt: %w", err)
		}
		prompt = string(b)
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errEmptyPrompt
	}
	return prompt, nil
}

func newTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleFaint).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...)
}

// deleter removes one remote object by ID.
type deleter func(ctx context.Context, id string) (gptifier.Deletion, error)

// deleteAll calls del for every id and reports each outcome on w. A failure
// does not stop the remaining deletions; the returned error counts them.
func deleteAll(ctx context.Context, w io.Writer, ids []string, del deleter) error {
	var failed int
	for _, id := range ids {
		d, err := del(ctx, id)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", styleWarning.Render("failed to delete"), id, err)
		case !d.Deleted:
			failed++
			fmt.Fprintf(w, "%s %s: server did not delete it\n", styleWarning.Render("failed to delete"), id)
		default:
			fmt.Fprintf(w, "deleted %s\n", d.ID)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d objects", failed, len(ids))
	}
	return nil
}
