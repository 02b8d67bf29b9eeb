package cmd

import (
	"github.com/caffeine-labs/caff/internal/adapters/render/dashboard"
	"github.com/caffeine-labs/caff/internal/version"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Open the live dashboard",
		Long:  "Open the live dashboard. Keys: i login with Internet Identity, w login with Plug, d deposit, r refresh, x logout, q quit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			restoreLog, err := app.logToFile()
			if err != nil {
				return err
			}
			defer restoreLog()

			presenter := dashboard.NewPresenter()
			restoreOpener := app.opener.Redirect(func(url string) {
				presenter.ShowNotice("Open this URL to continue: " + url)
			})
			defer restoreOpener()

			controller := app.newController(presenter)
			defer controller.Stop()

			return dashboard.Run(cmd.Context(), controller, presenter, dashboard.Options{
				Version:         version.Version,
				WalletAvailable: app.sessions.WalletAvailable(),
			})
		},
	}
}
