package cmd

import (
	"fmt"

	textrender "github.com/caffeine-labs/caff/internal/adapters/render/text"
	"github.com/spf13/cobra"
)

func newDepositCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit AMOUNT",
		Short: "Deposit a whole number of ICP into the miner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.sessions.Restore(cmd.Context())

			controller := app.newController(textrender.NewPresenter(cmd.OutOrStdout()))
			request, err := controller.Deposit(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Deposited %d ICP\n", request.Amount)
			return err
		},
	}
}
