package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/seed"
	"github.com/evcraddock/realty/internal/user"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the configured administrator if missing",
		Long: `Create the bootstrap administrator from REALTY_ADMIN_* settings.

Running it again is harmless: an existing user with the admin email is left as is.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	created, err := seed.Admin(user.NewRepository(database), cfg.Admin)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]bool{"created": created})
	}

	switch {
	case created:
		fmt.Fprintf(out, "✓ Administrator %s created.\n", cfg.Admin.Email)
	case cfg.Admin.Email == "":
		fmt.Fprintln(out, "No admin configured (set REALTY_ADMIN_EMAIL).")
	default:
		fmt.Fprintf(out, "Administrator %s already exists.\n", cfg.Admin.Email)
	}
	return nil
}
