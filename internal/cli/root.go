package cli

import (
	"os"
	"strings"

	"dayboard-cli/internal/api"
	"dayboard-cli/internal/tui"

	"github.com/spf13/cobra"
)

const defaultAddr = "http://127.0.0.1:4711"

type App struct {
	Addr       string
	Format     string
	PrettyJSON bool
}

func (a *App) Client() *api.HTTPClient {
	return api.New(a.Addr)
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dayboard",
		Short:        "Day-grouped task/idea board (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the persistence service
  dayboard serve

  # Start the interactive board (drag with the mouse)
  dayboard

  # Scriptable commands
  dayboard items list --format table
  dayboard items add "write the report" --due 2026-09-01
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return tui.Run(app.Client())
			}
			return cmd.Help()
		},
	}

	addr := defaultAddr
	if v := strings.TrimSpace(os.Getenv("DAYBOARD_ADDR")); v != "" {
		addr = v
	}
	cmd.PersistentFlags().StringVar(&app.Addr, "addr", addr, "persistence service base URL")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "output format: json|table")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "pretty-print JSON output")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	return cmd
}

func writeErr(cmd *cobra.Command, err error) error {
	cmd.PrintErrln("error:", err)
	return err
}
