package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/spf13/cobra"
)

var fineTuneFlags struct {
	trainingFile string
	model        string
	limit        int
	raw          bool
}

var fineTuneCommand = &cobra.Command{
	Use:   "fine-tune",
	Short: "Manage fine-tuning jobs and fine-tuned models",
}

var fineTuneUploadCommand = &cobra.Command{
	Use:   "upload-file <path>",
	Short: "Upload a JSONL training file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open training file: %w", err)
		}
		defer f.Close()

		file, err := busy(cmd, "Uploading", func() (gptifier.File, error) {
			return c.UploadFile(cmd.Context(), filepath.Base(args[0]), gptifier.FilePurposeFineTune, f)
		})
		if err != nil {
			return fmt.Errorf("failed to upload file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as %s\n", file.Filename, styleBold.Render(file.ID))
		return nil
	},
}

var fineTuneCreateCommand = &cobra.Command{
	Use:   "create-job",
	Short: "Start a fine-tuning job from an uploaded file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		job, err := busy(cmd, "Creating job", func() (gptifier.FineTuningJob, error) {
			return c.CreateFineTuningJob(cmd.Context(), fineTuneFlags.trainingFile, fineTuneFlags.model)
		})
		if err != nil {
			return fmt.Errorf("failed to create fine-tuning job: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created job %s (%s)\n", styleBold.Render(job.ID), job.Status)
		return nil
	},
}

var fineTuneListCommand = &cobra.Command{
	Use:   "list-jobs",
	Short: "List fine-tuning jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		list, err := busy(cmd, "Listing jobs", func() (serialization.List[gptifier.FineTuningJob], error) {
			return c.ListFineTuningJobs(cmd.Context(), fineTuneFlags.limit)
		})
		if err != nil {
			return fmt.Errorf("failed to list fine-tuning jobs: %w", err)
		}

		if fineTuneFlags.raw {
			return printRaw(cmd.OutOrStdout(), list.Raw)
		}
		printJobs(cmd.OutOrStdout(), list.Items)
		return nil
	},
}

var fineTuneDeleteCommand = &cobra.Command{
	Use:   "delete-model <model-id>...",
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
	fineTuneCreateCommand.Flags().StringVarP(&fineTuneFlags.trainingFile, "file-id", "f", "", "ID of the uploaded training file")
	fineTuneCreateCommand.Flags().StringVarP(&fineTuneFlags.model, "model", "m", "", "base model to fine-tune")
	fineTuneCreateCommand.MarkFlagRequired("file-id")
	fineTuneCreateCommand.MarkFlagRequired("model")

	fineTuneListCommand.Flags().IntVarP(&fineTuneFlags.limit, "limit", "l", 20, "maximum number of jobs to list")
	fineTuneListCommand.Flags().BoolVarP(&fineTuneFlags.raw, "raw", "r", false, "print the raw JSON response")

	fineTuneCommand.AddCommand(
		fineTuneUploadCommand,
		fineTuneCreateCommand,
		fineTuneListCommand,
		fineTuneDeleteCommand,
	)
	rootCmd.AddCommand(fineTuneCommand)
}

func printJobs(w io.Writer, jobs []gptifier.FineTuningJob) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, styleFaint.Render("No fine-tuning jobs found."))
		return
	}

	t := newTable("JOB ID", "CREATED", "FINISHED", "ESTIMATED FINISH", "MODEL", "STATUS")
	for _, j := range jobs {
		t.Row(j.ID, serialization.FormatTimestamp(j.CreatedAt), j.FinishedAt, j.EstimatedFinish, j.Model, j.Status)
	}
	fmt.Fprintln(w, t.String())
}
