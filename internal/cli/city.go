package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/realty/internal/lookup"
)

func newCityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "city",
		Short: "Manage the city list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a city",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runCityAdd,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List cities",
			Args:  cobra.NoArgs,
			RunE:  runCityList,
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Rename a city",
			Args:  cobra.MinimumNArgs(2),
			RunE:  runCityRename,
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a city no property uses",
			Args:  cobra.ExactArgs(1),
			RunE:  runCityRemove,
		},
	)

	return cmd
}

func runCityAdd(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	c, err := lookup.NewRepository(database).AddCity(strings.Join(args, " "))
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ City #%d added: %s\n", c.ID, c.Name)
	return nil
}

func runCityList(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	cities, err := lookup.NewRepository(database).Cities()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), cities)
	}
	return printCities(cmd.OutOrStdout(), cities)
}

func runCityRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "city")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	name := strings.Join(args[1:], " ")
	if err := lookup.NewRepository(database).RenameCity(id, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ City #%d renamed to %s\n", id, name)
	return nil
}

func runCityRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "city")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := lookup.NewRepository(database).DeleteCity(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ City #%d removed.\n", id)
	return nil
}

func newLookupCmd() *cobra.Command {
	names := make([]string, len(lookup.Tables))
	for i, t := range lookup.Tables {
		names[i] = string(t)
	}

	return &cobra.Command{
		Use:   "lookup <table>",
		Short: "List a reference table",
		Long:  "List a reference table: " + strings.Join(names, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runLookup,
	}
}

func runLookup(cmd *cobra.Command, args []string) error {
	table, err := lookup.ParseTable(args[0])
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	entries, err := lookup.NewRepository(database).List(table)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	return printEntries(cmd.OutOrStdout(), entries)
}
