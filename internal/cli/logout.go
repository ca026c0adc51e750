package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/user"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Long:  "Deletes the stored session from the database and removes the token from disk.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd)
		},
	}
}

func runLogout(cmd *cobra.Command) error {
	st, err := loadState()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if st.Token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	sessions := auth.NewSessionStore(database, cfg.SigningKey(), user.NewRepository(database))
	if err := sessions.Destroy(st.Token); err != nil {
		return err
	}

	st.Token = ""
	if err := saveState(st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out.")
	return nil
}
