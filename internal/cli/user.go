package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/user"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(),
		newUserListCmd(),
		&cobra.Command{
			Use:   "show <id|email>",
			Short: "Show a user",
			Args:  cobra.ExactArgs(1),
			RunE:  runUserShow,
		},
		&cobra.Command{
			Use:   "role <id> <role>",
			Short: "Change a user's role (admin, agent, client)",
			Args:  cobra.ExactArgs(2),
			RunE:  runUserRole,
		},
		newUserPasswdCmd(),
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a user",
			Long:  "Remove a user. Their favorites and sessions go with them; users who requested visits cannot be removed.",
			Args:  cobra.ExactArgs(1),
			RunE:  runUserRemove,
		},
	)

	return cmd
}

func newUserAddCmd() *cobra.Command {
	var u user.User
	var role, password string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Add a user",
		Long: `Add a user. The password is read from stdin unless --password is given.

Examples:
  realty user add ana@example.com --name Ana --surname Ruiz
  realty user add joe@example.com --name Joe --surname Diaz --role agent`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u.Email = args[0]
			return runUserAdd(cmd, &u, role, password)
		},
	}

	cmd.Flags().StringVar(&u.Name, "name", "", "first name")
	cmd.Flags().StringVar(&u.Surname, "surname", "", "surname")
	cmd.Flags().StringVar(&u.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&u.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&role, "role", "client", "role (admin, agent, client)")
	cmd.Flags().StringVar(&password, "password", "", "password (default: read from stdin)")

	return cmd
}

func runUserAdd(cmd *cobra.Command, u *user.User, role, password string) error {
	r, err := user.ParseRole(role)
	if err != nil {
		return err
	}
	u.Role = r

	if password == "" {
		password, err = readLine(cmd, "Password: ")
		if err != nil {
			return err
		}
	}
	if err := u.SetPassword(password); err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	created, err := user.NewRepository(database).Create(u)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ User #%d added: %s (%s)\n", created.ID, created.Email, created.Role)
	return nil
}

func newUserListCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserList(cmd, role)
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "only list users with this role")

	return cmd
}

func runUserList(cmd *cobra.Command, role string) error {
	var r user.Role
	if role != "" {
		var err error
		if r, err = user.ParseRole(role); err != nil {
			return err
		}
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	users, err := user.NewRepository(database).List(r)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), users)
	}
	return printUserTable(cmd.OutOrStdout(), users)
}

func runUserShow(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	repo := user.NewRepository(database)

	var u *user.User
	if strings.Contains(args[0], "@") {
		u, err = repo.GetByEmail(args[0])
	} else {
		var id int64
		if id, err = parseID(args[0], "user"); err != nil {
			return err
		}
		u, err = repo.GetByID(id)
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), u)
	}
	printUser(cmd.OutOrStdout(), u)
	return nil
}

func runUserRole(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}
	role, err := user.ParseRole(args[1])
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	repo := user.NewRepository(database)
	u, err := repo.GetByID(id)
	if err != nil {
		return err
	}

	u.Role = role
	if err := repo.Update(u); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ User #%d is now %s\n", id, role)
	return nil
}

func newUserPasswdCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <id>",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserPasswd(cmd, args[0], password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password (default: read from stdin)")

	return cmd
}

func runUserPasswd(cmd *cobra.Command, arg, password string) error {
	id, err := parseID(arg, "user")
	if err != nil {
		return err
	}

	if password == "" {
		if password, err = readLine(cmd, "New password: "); err != nil {
			return err
		}
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := user.NewRepository(database).UpdatePassword(id, password); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Password updated for user #%d\n", id)
	return nil
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := user.NewRepository(database).Delete(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ User #%d removed.\n", id)
	return nil
}

// readLine prompts on stderr and reads one trimmed line from stdin.
func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
