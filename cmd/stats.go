package cmd

import (
	"context"
	"fmt"

	textrender "github.com/caffeine-labs/caff/internal/adapters/render/text"
	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch the current deposit and rewards once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if session := app.sessions.Restore(cmd.Context()); !session.Active {
				return fmt.Errorf("%w: run `caff login` first", domain.ErrNotConnected)
			}

			var result domain.PollResult
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching miner stats...", func(ctx context.Context) error {
				fetched, err := app.poller.FetchOnce(ctx)
				result = fetched
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), textrender.RenderStats(result.DepositLabel(), result.RewardsLabel()))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}
