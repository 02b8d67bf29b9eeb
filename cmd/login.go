package cmd

import (
	"errors"
	"fmt"

	"github.com/caffeine-labs/caff/internal/application"
	"github.com/caffeine-labs/caff/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [identity|wallet]",
		Short: "Sign in with Internet Identity (default) or the Plug wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := domain.ProviderIdentity
			if len(args) == 1 {
				parsed, err := domain.ParseProvider(args[0])
				if err != nil {
					return err
				}
				provider = parsed
			}

			current := app.sessions.Restore(cmd.Context())
			session, err := app.sessions.Login(cmd.Context(), provider)
			if err != nil {
				if errors.Is(err, domain.ErrAlreadyActive) {
					return fmt.Errorf("already signed in via %s: run `caff logout` first", current.Provider.Label())
				}
				if application.IsLoginFailure(err) {
					return fmt.Errorf("%w; run `caff login %s` to try again", err, provider)
				}
				return err
			}

			if !session.Active {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is not installed; finish the installation and run `caff login %s` again\n", provider.Label(), provider)
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in via %s\n", session.Provider.Label())
			return err
		},
	}
}
