package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	baseURL    string
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("SUGGESTIFY_CONFIG")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "suggestify",
		Short:         "TV show recommendations in your terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", os.Getenv("SUGGESTIFY_BASE_URL"), "recommendation service base URL (overrides config)")
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newQuestionsCmd(opts))
	return cmd
}
