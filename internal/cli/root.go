// Package cli implements the keydrift command line tool: a one-shot
// comparison for CI pipelines and scripts, sharing the parsers and the
// engine with the web server.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/keydrift/internal/config"
	"github.com/JonMunkholm/keydrift/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrDrift is returned by compare --fail-on-drift when the report is not
// empty. main maps it to exit status 1 without printing it again.
var ErrDrift = errors.New("translation drift detected")

// app carries the state shared by all subcommands.
type app struct {
	cfg      *config.Config
	logLevel string
	stdout   io.Writer
	stderr   io.Writer
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "keydrift",
		Short: "Find translation keys that drifted between an app and its translation table",
		Long: `keydrift compares the keys an application expects (a JSON object) with a
back-office translation export (CSV or XLSX) and reports keys missing from
the table and matched keys with empty translations.

Defaults for the key column and the structural columns come from the same
environment variables the server reads (TABLE_KEY_COLUMN,
TABLE_STRUCTURAL_COLUMNS); a .env file in the working directory is loaded
first.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			logging.SetupWriter(a.stderr, a.logLevel, "text")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newCompareCommand(a))
	root.AddCommand(newLanguagesCommand(a))
	return root
}
