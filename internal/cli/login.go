package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/user"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store a session token",
		Long:  "Checks the email and password (read from stdin unless --password is given) and stores a signed session token for later commands.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, args[0], password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (default: read from stdin)")

	return cmd
}

func runLogin(cmd *cobra.Command, emailAddr, password string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if password == "" {
		var err error
		if password, err = readLine(cmd, "Password: "); err != nil {
			return err
		}
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	users := user.NewRepository(database)
	u, err := auth.NewAuthenticator(users).Login(emailAddr, password)
	if err != nil {
		slog.Warn("login failed", "email", emailAddr)
		return err
	}

	sessions := auth.NewSessionStore(database, cfg.SigningKey(), users)
	if err := sessions.Cleanup(); err != nil {
		return err
	}
	token, err := sessions.Create(u)
	if err != nil {
		return err
	}

	// Load existing state to preserve other fields
	st, err := loadState()
	if err != nil {
		st = cliState{}
	}
	st.Token = token
	if err := saveState(st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	slog.Info("logged in", "user", u.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s (%s)\n", u.Email, u.Role)
	return nil
}
