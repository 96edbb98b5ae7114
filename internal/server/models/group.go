package models

import "time"

// Group is an organizational unit. Moderators are scoped to the users of
// their own group.
type Group struct {
	ID        int64     `json:"group_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
