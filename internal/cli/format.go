package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/favorite"
	"github.com/evcraddock/realty/internal/lookup"
	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/user"
	"github.com/evcraddock/realty/internal/visit"
)

const timeLayout = "2006-01-02 15:04"

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows under a header with a dashed separator line.
func table(out io.Writer, header []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	sep := make([]string, len(header))
	for i, h := range header {
		sep[i] = strings.Repeat("-", len(h))
	}

	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, "\t")); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printPropertySummary prints a single property in text format.
func printPropertySummary(w io.Writer, p *property.Property) {
	fmt.Fprintf(w, "Property #%d\n", p.ID)
	fmt.Fprintf(w, "  Name:     %s\n", p.Name)
	fmt.Fprintf(w, "  Address:  %s\n", p.Address)
	fmt.Fprintf(w, "  Price:    $%s\n", formatPrice(p.Price))
	fmt.Fprintf(w, "  Area:     %d m2\n", p.AreaM2)
	fmt.Fprintf(w, "  Rooms:    %d\n", p.Rooms)
	fmt.Fprintf(w, "  Baths:    %d\n", p.Bathrooms)
	if p.CityID != nil {
		fmt.Fprintf(w, "  City:     %d\n", *p.CityID)
	}
	if p.TypeID != nil {
		fmt.Fprintf(w, "  Type:     %d\n", *p.TypeID)
	}
	if p.StatusID != nil {
		fmt.Fprintf(w, "  Status:   %d\n", *p.StatusID)
	}
	if p.ImageURL != "" {
		fmt.Fprintf(w, "  Image:    %s\n", p.ImageURL)
	}
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(w io.Writer, props []*property.Property) error {
	if len(props) == 0 {
		fmt.Fprintln(w, "No properties found.")
		return nil
	}

	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{
			fmt.Sprint(p.ID),
			truncate(p.Name, 30),
			truncate(p.Address, 40),
			"$" + formatPrice(p.Price),
			fmt.Sprint(p.AreaM2),
			fmt.Sprint(p.Rooms),
			fmt.Sprint(p.Bathrooms),
		})
	}
	if err := table(w, []string{"ID", "NAME", "ADDRESS", "PRICE", "M2", "ROOMS", "BATH"}, rows); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d properties\n", len(props))
	return nil
}

// printImages prints a property's images.
func printImages(w io.Writer, images []*property.Image) error {
	if len(images) == 0 {
		fmt.Fprintln(w, "No images.")
		return nil
	}

	rows := make([][]string, 0, len(images))
	for _, img := range images {
		rows = append(rows, []string{fmt.Sprint(img.ID), img.URL})
	}
	return table(w, []string{"ID", "URL"}, rows)
}

// printUser prints a single user in text format. The password hash is never shown.
func printUser(w io.Writer, u *user.User) {
	fmt.Fprintf(w, "User #%d\n", u.ID)
	fmt.Fprintf(w, "  Name:     %s\n", u.FullName())
	fmt.Fprintf(w, "  Email:    %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "  Phone:    %s\n", u.Phone)
	}
	if u.Address != "" {
		fmt.Fprintf(w, "  Address:  %s\n", u.Address)
	}
	fmt.Fprintf(w, "  Role:     %s\n", u.Role)
	fmt.Fprintf(w, "  Since:    %s\n", u.CreatedAt.Format(timeLayout))
}

// printUserTable prints users as a table.
func printUserTable(w io.Writer, users []*user.User) error {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return nil
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{fmt.Sprint(u.ID), u.Email, truncate(u.FullName(), 30), u.Role.String()})
	}
	return table(w, []string{"ID", "EMAIL", "NAME", "ROLE"}, rows)
}

// printVisit prints a single visit in text format.
func printVisit(w io.Writer, v *visit.Visit, status string) {
	fmt.Fprintf(w, "Visit #%d\n", v.ID)
	fmt.Fprintf(w, "  When:     %s\n", formatWhen(v.ScheduledAt))
	fmt.Fprintf(w, "  Property: %d\n", v.PropertyID)
	fmt.Fprintf(w, "  User:     %d\n", v.UserID)
	fmt.Fprintf(w, "  Status:   %s\n", status)
	if v.AgentID != nil {
		fmt.Fprintf(w, "  Agent:    %d\n", *v.AgentID)
	} else {
		fmt.Fprintln(w, "  Agent:    unassigned")
	}
}

// printVisitTable prints visits as a table, resolving status names from statuses.
func printVisitTable(w io.Writer, visits []*visit.Visit, statuses map[int64]string) error {
	if len(visits) == 0 {
		fmt.Fprintln(w, "No visits scheduled.")
		return nil
	}

	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		agent := "-"
		if v.AgentID != nil {
			agent = fmt.Sprint(*v.AgentID)
		}
		rows = append(rows, []string{
			fmt.Sprint(v.ID),
			formatWhen(v.ScheduledAt),
			fmt.Sprint(v.PropertyID),
			fmt.Sprint(v.UserID),
			agent,
			statusName(statuses, v.StatusID),
		})
	}
	return table(w, []string{"ID", "WHEN", "PROPERTY", "USER", "AGENT", "STATUS"}, rows)
}

// printFavorites prints favorites as a table.
func printFavorites(w io.Writer, favs []*favorite.Favorite) error {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites.")
		return nil
	}

	rows := make([][]string, 0, len(favs))
	for _, f := range favs {
		rows = append(rows, []string{fmt.Sprint(f.ID), fmt.Sprint(f.PropertyID), f.CreatedAt.Format(timeLayout)})
	}
	return table(w, []string{"ID", "PROPERTY", "ADDED"}, rows)
}

// printEntries prints lookup rows as a table.
func printEntries(w io.Writer, entries []*lookup.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{fmt.Sprint(e.ID), e.Description})
	}
	return table(w, []string{"ID", "DESCRIPTION"}, rows)
}

// printCities prints cities as a table.
func printCities(w io.Writer, cities []*lookup.City) error {
	if len(cities) == 0 {
		fmt.Fprintln(w, "No cities.")
		return nil
	}

	rows := make([][]string, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, []string{fmt.Sprint(c.ID), c.Name})
	}
	return table(w, []string{"ID", "NAME"}, rows)
}

// printMigrations prints migration status as a table.
func printMigrations(w io.Writer, statuses []db.MigrationStatus) error {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Format(timeLayout)
		}
		rows = append(rows, []string{fmt.Sprint(s.Version), s.Name, applied})
	}
	return table(w, []string{"VERSION", "NAME", "APPLIED"}, rows)
}

func statusName(statuses map[int64]string, id *int64) string {
	if id == nil {
		return "-"
	}
	if name, ok := statuses[*id]; ok {
		return name
	}
	return fmt.Sprint(*id)
}

// formatWhen renders a visit time in local time.
func formatWhen(t time.Time) string {
	return t.Local().Format(timeLayout)
}

// formatPrice formats a price as a whole-unit string with commas.
func formatPrice(price float64) string {
	s := fmt.Sprintf("%d", int64(math.Round(price)))

	// Add commas
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
