package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"suggestify/internal/app"
	"suggestify/internal/logging"
	"suggestify/internal/tui"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var genres []string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print recommendations for one or more genres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd.Context(), opts, genres, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringSliceVarP(&genres, "genre", "g", nil, "genre to recommend for (repeatable)")
	return cmd
}

func runRecommend(ctx context.Context, opts *rootOptions, genres []string, out, errOut io.Writer) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg, false, errOut)
	defer logging.Close()

	d := buildDeps(cfg)
	defer d.Close()

	state := app.NewState()
	effects, err := state.FetchAndRender(genres)
	if err != nil {
		return err
	}
	drain(ctx, state, d.dispatcher, effects)

	results := state.Results()
	fmt.Fprint(out, tui.RenderResults(results, 80))
	if results.Failed() {
		return errors.New(results.ErrorTitle)
	}
	return nil
}

// drain executes effects and their follow-ups until none remain.
func drain(ctx context.Context, state *app.State, dispatcher *app.Dispatcher, effects []app.Effect) {
	for len(effects) > 0 {
		eff := effects[0]
		effects = effects[1:]
		if ev := dispatcher.Execute(ctx, eff); ev != nil {
			effects = append(effects, state.Apply(ev)...)
		}
	}
}
