package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/favorite"
)

func newFavoriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorite",
		Aliases: []string{"fav"},
		Short:   "Manage users' favorite properties",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <user-id> <property-id>",
			Short: "Bookmark a property for a user",
			Args:  cobra.ExactArgs(2),
			RunE:  runFavoriteAdd,
		},
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "List a user's favorites",
			Args:  cobra.ExactArgs(1),
			RunE:  runFavoriteList,
		},
		&cobra.Command{
			Use:   "remove <user-id> <property-id>",
			Short: "Remove a bookmark",
			Args:  cobra.ExactArgs(2),
			RunE:  runFavoriteRemove,
		},
	)

	return cmd
}

func parseUserProperty(args []string) (int64, int64, error) {
	userID, err := parseID(args[0], "user")
	if err != nil {
		return 0, 0, err
	}
	propertyID, err := parseID(args[1], "property")
	if err != nil {
		return 0, 0, err
	}
	return userID, propertyID, nil
}

func runFavoriteAdd(cmd *cobra.Command, args []string) error {
	userID, propertyID, err := parseUserProperty(args)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	f, err := favorite.NewRepository(database).Add(userID, propertyID)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), f)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Property #%d added to user #%d's favorites\n", propertyID, userID)
	return nil
}

func runFavoriteList(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	favs, err := favorite.NewRepository(database).ListByUser(userID)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), favs)
	}
	return printFavorites(cmd.OutOrStdout(), favs)
}

func runFavoriteRemove(cmd *cobra.Command, args []string) error {
	userID, propertyID, err := parseUserProperty(args)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := favorite.NewRepository(database).Remove(userID, propertyID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Property #%d removed from user #%d's favorites\n", propertyID, userID)
	return nil
}
