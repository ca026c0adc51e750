// Package cli defines the cobra command tree for realty.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/config"
	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/logging"
)

var (
	flagFormat string
	flagDB     string
	flagConfig string

	// cfg is loaded before every command runs.
	cfg config.Config
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "realty",
		Short:         "Manage property listings, users and visits",
		Long:          "A tool to manage real-estate listings, the users who browse them, their favorites and the visits agents conduct.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/realty/realty.db)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: ~/.config/realty/config.yaml)")

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newCityCmd(),
		newLookupCmd(),
		newUserCmd(),
		newPropertyCmd(),
		newFavoriteCmd(),
		newVisitCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	instrument(root)

	return root
}

// loadConfig reads configuration and sets up logging.
func loadConfig() error {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	logging.Setup(cfg.DevMode)
	return nil
}

// instrument wraps every runnable command so its outcome is logged.
func instrument(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			return logging.Command(c.CommandPath(), func() error {
				return run(c, args)
			})
		}
	}
	for _, sub := range cmd.Commands() {
		instrument(sub)
	}
}

// openDB opens the SQLite database using the --db flag, the configured
// path or the default path, applying pending migrations.
func openDB() (*sql.DB, error) {
	path, err := dbPath()
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

func dbPath() (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return db.DefaultPath()
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}

// parseID parses a positive numeric ID argument.
func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, s)
	}
	return id, nil
}
