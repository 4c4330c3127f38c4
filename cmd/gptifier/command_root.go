package main

import (
	"errors"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errMissingAPIKey = errors.New(config.EnvAPIKey + " environment variable is not set")

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger = zerolog.Nop()
	client *gptifier.Client
	ollama *gptifier.OllamaClient
)

var rootCmd = &cobra.Command{
	Use:           "gptifier",
	Short:         "Query OpenAI and Ollama models from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ~/.gptifier/gptifier.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
}

// setup loads configuration and builds the API clients shared by every
// command.
func setup(cmd *cobra.Command) error {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if err := config.LoadDotEnv(config.DotEnvPaths()...); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	c.ApplyEnv()
	cfg = c

	logger.Debug().Str("config", path).Msg("configuration loaded")

	client = gptifier.NewClient(cfg.APIKey,
		gptifier.WithOrganization(cfg.Organization),
		gptifier.WithAdminKey(cfg.AdminKey),
		gptifier.WithBaseURL(cfg.BaseURL),
		gptifier.WithLogger(logger),
	)
	ollama = gptifier.NewOllamaClient(cfg.Ollama.BaseURL, nil, logger)

	return nil
}

// platform returns the OpenAI client, failing early when no API key is
// configured.
func platform() (*gptifier.Client, error) {
	if client == nil || client.APIKey == "" {
		return nil, errMissingAPIKey
	}
	return client, nil
}
