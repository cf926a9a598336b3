package cli

import (
	"dayboard-cli/internal/format"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the persistence service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client().Healthy(cmd.Context()); err != nil {
				cmd.PrintErrf("unreachable: %s\n", app.Addr)
				return writeErr(cmd, err)
			}
			return format.Write(cmd.OutOrStdout(), map[string]string{
				"status": "ok",
				"addr":   app.Addr,
			}, app.Format, app.PrettyJSON)
		},
	}
}
