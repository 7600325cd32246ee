package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"suggestify/internal/config"
	"suggestify/internal/domain"
	"suggestify/internal/logging"
	"suggestify/internal/tui"
)

func newQuestionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the quiz question set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestions(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runQuestions(ctx context.Context, opts *rootOptions, out, errOut io.Writer) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg, false, errOut)
	defer logging.Close()

	d := buildDeps(cfg)
	defer d.Close()

	ctx, cancel := context.WithTimeout(ctx, config.TTLDuration(cfg.Service.Timeout, defaultTimeout))
	defer cancel()

	questions, err := d.questions.GetQuestions(ctx)
	if err != nil || len(questions) == 0 {
		logging.Warn().Err(err).Msg("using built-in quiz questions")
		questions = domain.DefaultQuestions()
	}
	fmt.Fprint(out, tui.RenderQuestions(questions))
	return nil
}
