// Package lookup provides the static reference tables (roles, property types,
// property statuses, visit statuses) and the editable city list.
package lookup

import "fmt"

// Table names a static lookup table.
type Table string

const (
	Roles            Table = "roles"
	PropertyTypes    Table = "property_types"
	PropertyStatuses Table = "property_statuses"
	VisitStatuses    Table = "visit_statuses"
)

// Tables is the set of static lookup tables.
var Tables = []Table{Roles, PropertyTypes, PropertyStatuses, VisitStatuses}

// ParseTable resolves a table name, accepting the singular forms used on the
// command line ("role", "visit-status", ...).
func ParseTable(s string) (Table, error) {
	switch s {
	case "roles", "role":
		return Roles, nil
	case "property_types", "property-types", "property-type", "type", "types":
		return PropertyTypes, nil
	case "property_statuses", "property-statuses", "property-status":
		return PropertyStatuses, nil
	case "visit_statuses", "visit-statuses", "visit-status":
		return VisitStatuses, nil
	}
	return "", fmt.Errorf("unknown lookup table: %q", s)
}

// Entry is one row of a static lookup table.
type Entry struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// City is a city a property can be located in.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Seeded visit statuses.
const (
	VisitPending   int64 = 1
	VisitConfirmed int64 = 2
	VisitCompleted int64 = 3
	VisitCancelled int64 = 4
)
