package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/spf13/cobra"
)

var imgFlags struct {
	prompt  string
	file    string
	model   string
	quality string
	style   string
	size    string
	dir     string
}

var imgCommand = &cobra.Command{
	Use:   "img",
	Short: "Generate an image and save it as a PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := platform()
		if err != nil {
			return err
		}

		prompt, err := readPrompt(cmd, imgFlags.prompt, imgFlags.file)
		if err != nil {
			return err
		}

		req := gptifier.ImageRequest{
			Prompt:  prompt,
			Model:   defaultStr(imgFlags.model, cfg.Images.Model),
			Size:    defaultStr(imgFlags.size, cfg.Images.Size),
			Quality: defaultStr(imgFlags.quality, cfg.Images.Quality),
			Style:   defaultStr(imgFlags.style, cfg.Images.Style),
		}

		img, err := busy(cmd, "Generating image", func() (gptifier.Image, error) {
			return c.CreateImage(cmd.Context(), req)
		})
		if err != nil {
			return fmt.Errorf("failed to generate image: %w", err)
		}

		path, err := writeImage(imgFlags.dir, img)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if img.RevisedPrompt != "" {
			fmt.Fprintf(out, "%s %s\n", styleBold.Render("Revised prompt:"), img.RevisedPrompt)
		}
		fmt.Fprintf(out, "Saved %s\n", styleBold.Render(path))
		return nil
	},
}

func init() {
	f := imgCommand.Flags()
	f.StringVarP(&imgFlags.prompt, "prompt", "p", "", "describe the image")
	f.StringVarP(&imgFlags.file, "read-from-file", "r", "", "read the prompt from a file (- for stdin)")
	f.StringVarP(&imgFlags.model, "model", "m", "", "the model to use (default from config)")
	f.StringVarP(&imgFlags.quality, "quality", "q", "", "image quality: standard or hd (default from config)")
	f.StringVarP(&imgFlags.style, "style", "s", "", "image style: vivid or natural (default from config)")
	f.StringVar(&imgFlags.size, "size", "", "image size, such as 1024x1024 (default from config)")
	f.StringVarP(&imgFlags.dir, "output-dir", "o", ".", "directory to save the image in")

	imgCommand.MarkFlagsOneRequired("prompt", "read-from-file")
	imgCommand.MarkFlagsMutuallyExclusive("prompt", "read-from-file")

	rootCmd.AddCommand(imgCommand)
}

// writeImage saves img in dir, named after its creation time.
func writeImage(dir string, img gptifier.Image) (string, error) {
	created := img.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, "gptifier-"+strconv.FormatInt(created, 10)+".png")
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}
