package models

import (
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
)

// Tag is a user defined label for brain dump entries
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// BrainDumpEntry is a captured thought. Archiving is a soft delete.
type BrainDumpEntry struct {
	ID         int64              `json:"id"`
	Text       string             `json:"text"`
	Category   constants.Category `json:"category,omitempty"`
	TagIDs     []int64            `json:"tag_ids"`
	CreatedAt  time.Time          `json:"created_at"`
	ArchivedAt *time.Time         `json:"archived_at,omitempty"`
}

// BrainDumpFilter narrows a brain dump listing. Zero values match everything
// except archived entries, which are only returned when IncludeArchived is set.
type BrainDumpFilter struct {
	Search          string
	Category        constants.Category
	TagIDs          []int64
	IncludeArchived bool
	From            *time.Time // inclusive, on CreatedAt
	To              *time.Time // exclusive, on CreatedAt
}

// TagCount is a tag with the number of entries it was used on
type TagCount struct {
	Tag   Tag `json:"tag"`
	Count int `json:"count"`
}
