package visit

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/lookup"
	"github.com/evcraddock/realty/internal/user"
)

// Repository provides CRUD operations for visits.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visit repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, user_id, property_id, scheduled_at, status_id, agent_id, created_at`

// Create schedules a visit. A visit without a status starts as Pending.
//
// The assigned agent, if any, is checked inside the same transaction as the
// insert: a user whose role is not Agent is rejected and nothing is written.
func (r *Repository) Create(v *Visit) (*Visit, error) {
	if v.UserID <= 0 {
		return nil, db.NewValidationError("visit requires a user")
	}
	if v.PropertyID <= 0 {
		return nil, db.NewValidationError("visit requires a property")
	}
	if v.ScheduledAt.IsZero() {
		return nil, db.NewValidationError("visit requires a date")
	}
	if v.StatusID == nil {
		pending := lookup.VisitPending
		v.StatusID = &pending
	}

	var id int64
	err := db.WithTx(r.db, func(tx *sql.Tx) error {
		if v.AgentID != nil {
			if err := checkAgent(tx, *v.AgentID); err != nil {
				return err
			}
		}

		result, err := tx.Exec(
			`INSERT INTO visits (user_id, property_id, scheduled_at, status_id, agent_id)
			 VALUES (?, ?, ?, ?, ?)`,
			v.UserID, v.PropertyID, v.ScheduledAt.UTC(), v.StatusID, v.AgentID,
		)
		if err != nil {
			return db.Classify(err, "visit")
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating visit: %w", err)
	}

	return r.GetByID(id)
}

// checkAgent rejects an agent reference to a user without the Agent role.
// An unknown user is left for the foreign key to report.
func checkAgent(tx *sql.Tx, agentID int64) error {
	var role user.Role
	err := tx.QueryRow("SELECT role_id FROM users WHERE id = ?", agentID).Scan(&role)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up agent %d: %w", agentID, err)
	}
	if role != user.RoleAgent {
		return db.NewValidationError("user %d cannot be assigned to a visit: role is %s, not Agent", agentID, role)
	}
	return nil
}

// GetByID returns a visit by its ID.
func (r *Repository) GetByID(id int64) (*Visit, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM visits WHERE id = ?", selectColumns), id)

	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, db.NewNotFoundError("visit", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying visit %d: %w", id, err)
	}
	return v, nil
}

// ListOptions controls filtering for List. Nil fields do not filter.
type ListOptions struct {
	UserID     *int64
	AgentID    *int64
	PropertyID *int64
	StatusID   *int64
}

// List returns visits ordered by scheduled date, soonest first.
func (r *Repository) List(opts ListOptions) ([]*Visit, error) {
	query := fmt.Sprintf("SELECT %s FROM visits", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *opts.UserID)
	}
	if opts.AgentID != nil {
		conditions = append(conditions, "agent_id = ?")
		args = append(args, *opts.AgentID)
	}
	if opts.PropertyID != nil {
		conditions = append(conditions, "property_id = ?")
		args = append(args, *opts.PropertyID)
	}
	if opts.StatusID != nil {
		conditions = append(conditions, "status_id = ?")
		args = append(args, *opts.StatusID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY scheduled_at, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var visits []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}

	return visits, nil
}

// ListByUser returns the visits a user requested.
func (r *Repository) ListByUser(userID int64) ([]*Visit, error) {
	return r.List(ListOptions{UserID: &userID})
}

// ListByAgent returns the visits assigned to an agent.
func (r *Repository) ListByAgent(agentID int64) ([]*Visit, error) {
	return r.List(ListOptions{AgentID: &agentID})
}

// ListByProperty returns all visits to a property.
func (r *Repository) ListByProperty(propertyID int64) ([]*Visit, error) {
	return r.List(ListOptions{PropertyID: &propertyID})
}

// UpdateStatus moves a visit to another status. Any status may follow any other.
func (r *Repository) UpdateStatus(id, statusID int64) error {
	result, err := r.db.Exec("UPDATE visits SET status_id = ? WHERE id = ?", statusID, id)
	if err != nil {
		return fmt.Errorf("updating visit status: %w", db.Classify(err, "visit"))
	}

	return requireRow(result, id)
}

// AssignAgent sets or, with a nil agentID, clears the visit's agent.
// The agent is checked the same way as in Create.
func (r *Repository) AssignAgent(id int64, agentID *int64) error {
	err := db.WithTx(r.db, func(tx *sql.Tx) error {
		if agentID != nil {
			if err := checkAgent(tx, *agentID); err != nil {
				return err
			}
		}

		result, err := tx.Exec("UPDATE visits SET agent_id = ? WHERE id = ?", agentID, id)
		if err != nil {
			return db.Classify(err, "visit")
		}
		return requireRow(result, id)
	})
	if err != nil {
		return fmt.Errorf("assigning agent: %w", err)
	}
	return nil
}

// Reschedule moves a visit to a new date.
func (r *Repository) Reschedule(id int64, at time.Time) error {
	if at.IsZero() {
		return db.NewValidationError("visit requires a date")
	}

	result, err := r.db.Exec("UPDATE visits SET scheduled_at = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("rescheduling visit: %w", err)
	}

	return requireRow(result, id)
}

// Delete removes a visit by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM visits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting visit: %w", err)
	}

	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return db.NewNotFoundError("visit", id)
	}
	return nil
}
