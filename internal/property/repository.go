package property

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/evcraddock/realty/internal/db"
)

// Repository provides CRUD operations for properties and their images.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const insertSQL = `INSERT INTO properties
	(name, price, image_url, city_id, status_id, type_id, area_m2, rooms, bathrooms, address)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, name, price, image_url, city_id, status_id, type_id, area_m2, rooms, bathrooms, address, created_at, updated_at`

// Insert adds a new property and returns it with its generated ID.
func (r *Repository) Insert(p *Property) (*Property, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(insertSQL,
		p.Name, p.Price, nullString(p.ImageURL),
		p.CityID, p.StatusID, p.TypeID,
		p.AreaM2, p.Rooms, p.Bathrooms, p.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", db.Classify(err, "property"))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a property by its ID.
func (r *Repository) GetByID(id int64) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	row := r.db.QueryRow(query, id)

	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, db.NewNotFoundError("property", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}

	return p, nil
}

// ListOptions controls filtering for List. Nil fields do not filter.
type ListOptions struct {
	CityID   *int64
	StatusID *int64
	TypeID   *int64
	MaxPrice *float64
}

// List returns properties, optionally filtered, newest first.
func (r *Repository) List(opts ListOptions) ([]*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.CityID != nil {
		conditions = append(conditions, "city_id = ?")
		args = append(args, *opts.CityID)
	}
	if opts.StatusID != nil {
		conditions = append(conditions, "status_id = ?")
		args = append(args, *opts.StatusID)
	}
	if opts.TypeID != nil {
		conditions = append(conditions, "type_id = ?")
		args = append(args, *opts.TypeID)
	}
	if opts.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *opts.MaxPrice)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return properties, nil
}

// Update saves all editable fields of an existing property.
func (r *Repository) Update(p *Property) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := r.db.Exec(
		`UPDATE properties SET name = ?, price = ?, image_url = ?, city_id = ?, status_id = ?, type_id = ?,
		 area_m2 = ?, rooms = ?, bathrooms = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Name, p.Price, nullString(p.ImageURL), p.CityID, p.StatusID, p.TypeID,
		p.AreaM2, p.Rooms, p.Bathrooms, p.Address, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", db.Classify(err, "property"))
	}

	return requireRow(result, "property", p.ID)
}

// Delete removes a property by ID. Images and favorites cascade; a property
// with scheduled visits cannot be removed.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", db.ClassifyDelete(err, "property"))
	}

	return requireRow(result, "property", id)
}

func requireRow(result sql.Result, resource string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return db.NewNotFoundError(resource, id)
	}
	return nil
}
