// Package property provides the property listing domain model and data access.
package property

import (
	"database/sql"
	"strings"
	"time"

	"github.com/evcraddock/realty/internal/db"
)

// Property is a listing managed by an agent or administrator.
type Property struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	CityID    *int64    `json:"city_id,omitempty"`
	StatusID  *int64    `json:"status_id,omitempty"`
	TypeID    *int64    `json:"type_id,omitempty"`
	AreaM2    int64     `json:"area_m2"`
	Rooms     int64     `json:"rooms"`
	Bathrooms int64     `json:"bathrooms"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the write-time invariants: counts and price are
// non-negative, name and address are present.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return db.NewValidationError("property name is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return db.NewValidationError("property address is required")
	}
	if p.Price < 0 {
		return db.NewValidationError("price must be >= 0, got %g", p.Price)
	}
	if p.AreaM2 < 0 {
		return db.NewValidationError("area must be >= 0, got %d", p.AreaM2)
	}
	if p.Rooms < 0 {
		return db.NewValidationError("rooms must be >= 0, got %d", p.Rooms)
	}
	if p.Bathrooms < 0 {
		return db.NewValidationError("bathrooms must be >= 0, got %d", p.Bathrooms)
	}
	return nil
}

// Image is an additional picture of a property.
type Image struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

// scanProperty scans a property from a database row.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var imageURL sql.NullString
	var cityID, statusID, typeID sql.NullInt64

	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &imageURL,
		&cityID, &statusID, &typeID,
		&p.AreaM2, &p.Rooms, &p.Bathrooms, &p.Address,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		p.ImageURL = imageURL.String
	}
	if cityID.Valid {
		p.CityID = &cityID.Int64
	}
	if statusID.Valid {
		p.StatusID = &statusID.Int64
	}
	if typeID.Valid {
		p.TypeID = &typeID.Int64
	}

	return &p, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
