package cli

import (
	"os"
	"path/filepath"
	"strings"

	"dayboard-cli/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func defaultDBPath() string {
	if v := strings.TrimSpace(os.Getenv("DAYBOARD_DB")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dayboard.sqlite"
	}
	return filepath.Join(home, ".dayboard", "dayboard.sqlite")
}

func newServeCmd() *cobra.Command {
	var listen string
	var dbPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the persistence service (REST over SQLite)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env in the working directory, for local setups.
			_ = godotenv.Load()

			if listen == "" {
				listen = strings.TrimSpace(os.Getenv("DAYBOARD_LISTEN"))
			}
			if listen == "" {
				listen = "127.0.0.1:4711"
			}
			if dbPath == "" {
				dbPath = defaultDBPath()
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return writeErr(cmd, err)
			}
			cmd.Printf("dayboard serve: listening on %s (db %s)\n", listen, dbPath)
			return server.OpenAndServe(cmd.Context(), dbPath, listen, quiet)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default 127.0.0.1:4711, env DAYBOARD_LISTEN)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default ~/.dayboard/dayboard.sqlite, env DAYBOARD_DB)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "disable the request log")
	return cmd
}
