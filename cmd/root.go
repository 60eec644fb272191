package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "partsdesk",
		Short: "Chat assistant for refrigerator and dishwasher parts",
		Long: `Partsdesk answers customer questions about refrigerator and dishwasher parts:
part lookups, model compatibility, installation, troubleshooting, and cart
management.

It serves a JSON API, an interactive terminal chat, and tooling for building
the semantic index and evaluating query routing.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "partsdesk.yaml", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newIndexCmd(opts))
	cmd.AddCommand(newEvalCmd())

	return cmd
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
