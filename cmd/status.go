package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	textrender "github.com/caffeine-labs/caff/internal/adapters/render/text"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which provider session, if any, is active",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := app.sessions.Restore(cmd.Context())
			status := textrender.NewStatus(session, app.sessions.WalletAvailable())

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), textrender.RenderStatus(status))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
