package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/db"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and when they were applied",
		Args:  cobra.NoArgs,
		RunE:  runMigrateStatus,
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	path, err := dbPath()
	if err != nil {
		return err
	}

	database, err := db.Connect(path)
	if err != nil {
		return err
	}
	defer closeDB(database)

	ran, err := db.Migrate(database)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", len(ran), "db", path)

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]interface{}{"applied": ran})
	}

	if len(ran) == 0 {
		fmt.Fprintln(out, "Database is up to date.")
		return nil
	}
	fmt.Fprintf(out, "Applied %d migration(s): %v\n", len(ran), ran)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	path, err := dbPath()
	if err != nil {
		return err
	}

	database, err := db.Connect(path)
	if err != nil {
		return err
	}
	defer closeDB(database)

	statuses, err := db.Status(database)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), statuses)
	}
	return printMigrations(cmd.OutOrStdout(), statuses)
}
