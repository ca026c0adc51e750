package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/evcraddock/realty/internal/property"
)

// propertyFlags binds the editable property fields to command flags.
type propertyFlags struct {
	name, address, image     string
	price                    float64
	area, rooms, bathrooms   int64
	cityID, statusID, typeID int64
}

func (f *propertyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "listing name")
	fs.StringVar(&f.address, "address", "", "street address")
	fs.StringVar(&f.image, "image", "", "main image URL")
	fs.Float64Var(&f.price, "price", 0, "price")
	fs.Int64Var(&f.area, "area", 0, "area in square meters")
	fs.Int64Var(&f.rooms, "rooms", 0, "number of rooms")
	fs.Int64Var(&f.bathrooms, "bathrooms", 0, "number of bathrooms")
	fs.Int64Var(&f.cityID, "city", 0, "city ID (0 for none)")
	fs.Int64Var(&f.statusID, "status", 0, "property status ID (see 'realty lookup property-status')")
	fs.Int64Var(&f.typeID, "type", 0, "property type ID (see 'realty lookup property-type')")
}

// apply copies the flags that were set on the command line onto p.
func (f *propertyFlags) apply(fs *pflag.FlagSet, p *property.Property) {
	if fs.Changed("name") {
		p.Name = f.name
	}
	if fs.Changed("address") {
		p.Address = f.address
	}
	if fs.Changed("image") {
		p.ImageURL = f.image
	}
	if fs.Changed("price") {
		p.Price = f.price
	}
	if fs.Changed("area") {
		p.AreaM2 = f.area
	}
	if fs.Changed("rooms") {
		p.Rooms = f.rooms
	}
	if fs.Changed("bathrooms") {
		p.Bathrooms = f.bathrooms
	}
	if fs.Changed("city") {
		p.CityID = optionalID(f.cityID)
	}
	if fs.Changed("status") {
		p.StatusID = optionalID(f.statusID)
	}
	if fs.Changed("type") {
		p.TypeID = optionalID(f.typeID)
	}
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"prop"},
		Short:   "Manage property listings",
	}

	cmd.AddCommand(
		newPropertyAddCmd(),
		newPropertyListCmd(),
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a property and its images",
			Args:  cobra.ExactArgs(1),
			RunE:  runPropertyShow,
		},
		newPropertyUpdateCmd(),
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a property",
			Long:  "Remove a property. Its images and favorites go with it; properties with visits cannot be removed.",
			Args:  cobra.ExactArgs(1),
			RunE:  runPropertyRemove,
		},
		newImageCmd(),
		&cobra.Command{
			Use:   "images <property-id>",
			Short: "List a property's images",
			Args:  cobra.ExactArgs(1),
			RunE:  runImageList,
		},
	)

	return cmd
}

func newPropertyAddCmd() *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a property",
		Long: `Add a property listing.

Examples:
  realty property add --name "Sunny flat" --address "12 Main St" --price 250000 --rooms 3 --bathrooms 1 --area 85
  realty property add --name "Shop" --address "4 Market Sq" --price 90000 --type 3 --city 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p property.Property
			f.apply(cmd.Flags(), &p)
			return runPropertyAdd(cmd, &p)
		},
	}

	f.register(cmd.Flags())

	return cmd
}

func runPropertyAdd(cmd *cobra.Command, p *property.Property) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	created, err := property.NewRepository(database).Insert(p)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), created)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Property added successfully!")
	printPropertySummary(cmd.OutOrStdout(), created)
	return nil
}

func newPropertyListCmd() *cobra.Command {
	var cityID, statusID, typeID int64
	var maxPrice float64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts property.ListOptions
			fs := cmd.Flags()
			if fs.Changed("city") {
				opts.CityID = &cityID
			}
			if fs.Changed("status") {
				opts.StatusID = &statusID
			}
			if fs.Changed("type") {
				opts.TypeID = &typeID
			}
			if fs.Changed("max-price") {
				opts.MaxPrice = &maxPrice
			}
			return runPropertyList(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&cityID, "city", 0, "filter by city ID")
	cmd.Flags().Int64Var(&statusID, "status", 0, "filter by property status ID")
	cmd.Flags().Int64Var(&typeID, "type", 0, "filter by property type ID")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "only properties at or below this price")

	return cmd
}

func runPropertyList(cmd *cobra.Command, opts property.ListOptions) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	props, err := property.NewRepository(database).List(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), props)
	}
	return printPropertyTable(cmd.OutOrStdout(), props)
}

func runPropertyShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "property")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	repo := property.NewRepository(database)
	p, err := repo.GetByID(id)
	if err != nil {
		return err
	}
	images, err := repo.ImagesByPropertyID(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, struct {
			*property.Property
			Images []*property.Image `json:"images"`
		}{p, images})
	}

	printPropertySummary(out, p)
	if len(images) > 0 {
		fmt.Fprintln(out, "\nImages:")
		return printImages(out, images)
	}
	return nil
}

func newPropertyUpdateCmd() *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a property's fields",
		Long:  "Change the fields given as flags; everything else is kept. Use --city 0 (or --status 0, --type 0) to clear.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropertyUpdate(cmd, args[0], &f)
		},
	}

	f.register(cmd.Flags())

	return cmd
}

func runPropertyUpdate(cmd *cobra.Command, arg string, f *propertyFlags) error {
	id, err := parseID(arg, "property")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	repo := property.NewRepository(database)
	p, err := repo.GetByID(id)
	if err != nil {
		return err
	}

	f.apply(cmd.Flags(), p)
	if err := repo.Update(p); err != nil {
		return err
	}

	updated, err := repo.GetByID(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Property updated.")
	printPropertySummary(cmd.OutOrStdout(), updated)
	return nil
}

func runPropertyRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "property")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := property.NewRepository(database).Delete(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Property #%d removed.\n", id)
	return nil
}

func newImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage a property's extra images",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <property-id> <url>",
			Short: "Attach an image to a property",
			Args:  cobra.ExactArgs(2),
			RunE:  runImageAdd,
		},
		&cobra.Command{
			Use:   "remove <image-id>",
			Short: "Remove an image",
			Args:  cobra.ExactArgs(1),
			RunE:  runImageRemove,
		},
	)

	return cmd
}

func runImageAdd(cmd *cobra.Command, args []string) error {
	propertyID, err := parseID(args[0], "property")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	img, err := property.NewRepository(database).AddImage(propertyID, args[1])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), img)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Image #%d added to property #%d\n", img.ID, propertyID)
	return nil
}

func runImageList(cmd *cobra.Command, args []string) error {
	propertyID, err := parseID(args[0], "property")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	images, err := property.NewRepository(database).ImagesByPropertyID(propertyID)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), images)
	}
	return printImages(cmd.OutOrStdout(), images)
}

func runImageRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "image")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := property.NewRepository(database).DeleteImage(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Image #%d removed.\n", id)
	return nil
}
