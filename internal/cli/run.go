package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"suggestify/internal/app"
	"suggestify/internal/config"
	"suggestify/internal/logging"
	"suggestify/internal/tui"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive recommender",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}
}

func runInteractive(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so logs go to the rotated file.
	initLogging(cfg, true, os.Stderr)
	defer logging.Close()

	d := buildDeps(cfg)
	defer d.Close()

	state := app.NewState(app.WithChatResetDelay(config.TTLDuration(cfg.Chat.ResetDelay, app.DefaultChatResetDelay)))
	model := tui.New(ctx, state, d.dispatcher)

	startedAt := time.Now()
	logging.Info().Msg("starting interactive session")
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logging.Error().Err(err).Msg("ui stopped")
		return fmt.Errorf("run ui: %w", err)
	}
	logging.Info().Dur("uptime", time.Since(startedAt)).Msg("session ended")
	return nil
}
