package models

import (
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
)

// ProjectTemplate is a reusable blueprint for projects
type ProjectTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// TemplateStep is a step copied into every project created from its template
type TemplateStep struct {
	ID          int64            `json:"id"`
	TemplateID  int64            `json:"template_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Effort      constants.Effort `json:"effort"`
	SortOrder   int              `json:"sort_order"`
}

// Project is a multi-step undertaking
type Project struct {
	ID          int64      `json:"id"`
	TemplateID  *int64     `json:"template_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ProjectStep is one step of a project. CompletedAt is set exactly when Completed is true.
type ProjectStep struct {
	ID          int64            `json:"id"`
	ProjectID   int64            `json:"project_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Effort      constants.Effort `json:"effort"`
	Completed   bool             `json:"completed"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	SortOrder   int              `json:"sort_order"`
}

// ProjectWithSteps is a project together with its ordered steps
type ProjectWithSteps struct {
	Project
	Steps []ProjectStep `json:"steps"`
}
