package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/user"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the database and login status",
		Long:  "Shows which database is in use and whether the stored session is still valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	path, err := dbPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Database: %s\n", path)

	st, err := loadState()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if st.Token == "" {
		fmt.Fprintln(out, "Session:  not logged in")
		fmt.Fprintln(out, "\nRun 'realty login <email>' to authenticate.")
		return nil
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	sessions := auth.NewSessionStore(database, cfg.SigningKey(), user.NewRepository(database))
	u, err := sessions.Validate(st.Token)
	if errors.Is(err, auth.ErrInvalidSession) {
		fmt.Fprintln(out, "Session:  ✗ invalid or expired")
		fmt.Fprintln(out, "\nRun 'realty login <email>' to re-authenticate.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Session:  ✓ %s (%s)\n", u.Email, u.Role)
	fmt.Fprintf(out, "Authenticated: %t\n", u.IsAuthenticated(true))
	return nil
}
