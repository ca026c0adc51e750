// Package visit provides the property visit domain model and data access.
package visit

import (
	"database/sql"
	"time"
)

// Visit is an appointment for a user to see a property, optionally
// conducted by an agent.
type Visit struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	PropertyID  int64     `json:"property_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	StatusID    *int64    `json:"status_id,omitempty"`
	AgentID     *int64    `json:"agent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasAgent reports whether an agent is assigned.
func (v *Visit) HasAgent() bool {
	return v.AgentID != nil
}

func scanVisit(row interface{ Scan(...interface{}) error }) (*Visit, error) {
	var v Visit
	var statusID, agentID sql.NullInt64

	err := row.Scan(
		&v.ID, &v.UserID, &v.PropertyID, &v.ScheduledAt,
		&statusID, &agentID, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if statusID.Valid {
		v.StatusID = &statusID.Int64
	}
	if agentID.Valid {
		v.AgentID = &agentID.Int64
	}

	return &v, nil
}
