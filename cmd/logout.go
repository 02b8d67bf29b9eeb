package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the active provider session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := app.sessions.Restore(cmd.Context())
			if !session.Active {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return err
			}

			app.sessions.Logout(cmd.Context())

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Signed out of %s\n", session.Provider.Label())
			return err
		},
	}
}
