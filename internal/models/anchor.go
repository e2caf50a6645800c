package models

import "time"

// Anchor is a recurring daily habit
type Anchor struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// AnchorCompletion records that an anchor was done on a given local date.
// There is at most one completion per (AnchorID, CompletedDate).
type AnchorCompletion struct {
	ID            int64     `json:"id"`
	AnchorID      int64     `json:"anchor_id"`
	CompletedDate string    `json:"completed_date"` // YYYY-MM-DD format
	CompletedAt   time.Time `json:"completed_at"`
}

// AnchorStatus is an anchor annotated with whether it is completed today
type AnchorStatus struct {
	Anchor
	Active bool `json:"active"`
}
