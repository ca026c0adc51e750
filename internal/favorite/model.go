// Package favorite provides users' property bookmarks and their data access.
package favorite

import "time"

// Favorite links a user to a property they bookmarked.
// A (user, property) pair appears at most once.
type Favorite struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
