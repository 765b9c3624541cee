package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/storage"
)

// app is the state shared by every subcommand, filled in by the root
// command's pre-run hook.
type app struct {
	dbPath  string
	verbose bool

	cfg    *config.Config
	logger *applog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Administer the musholla ledger database",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
			a.cfg = config.Load()
			if a.dbPath != "" {
				a.cfg.SQLiteDBPath = a.dbPath
			}
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = applog.New(applog.Config{Level: level, Component: "ledgerctl", Output: os.Stderr})
			applog.SetDefault(a.logger)
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (default from SQLITE_DB_PATH)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newListCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) openRepo() (*storage.SQLiteRepository, error) {
	return cli.OpenSQLite(a.logger, a.cfg.SQLiteDBPath)
}
