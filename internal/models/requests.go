package models

// Request payloads accepted by the HTTP API and the CLI.

type LogEnergyRequest struct {
	Level string `json:"level"`
	Note  string `json:"note"`
}

type CreateAnchorRequest struct {
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	SortOrder *int   `json:"sort_order"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TemplateID  *int64 `json:"template_id"`
}

type CreateStepRequest struct {
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Effort      string `json:"effort"`
	SortOrder   *int   `json:"sort_order"`
}

type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
}

type CreateTemplateStepRequest struct {
	TemplateID  int64  `json:"template_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Effort      string `json:"effort"`
	SortOrder   *int   `json:"sort_order"`
}

type ReorderStepsRequest struct {
	StepIDs []int64 `json:"step_ids"`
}

type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type BrainDumpRequest struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	TagIDs   []int64 `json:"tag_ids"`
}

// UpdateBrainDumpRequest carries a partial update; nil fields are left unchanged
type UpdateBrainDumpRequest struct {
	Text     *string  `json:"text"`
	Category *string  `json:"category"`
	TagIDs   *[]int64 `json:"tag_ids"`
}

type CategoryRequest struct {
	Category string `json:"category"`
}

type CategorizeRequest struct {
	Text string `json:"text"`
}

type CategorizeResponse struct {
	Category string `json:"category"`
}

// UpdateSettingsRequest carries a partial update; nil fields are left unchanged
type UpdateSettingsRequest struct {
	WeeklyTarget       *int    `json:"weekly_target"`
	CurrentEnergyLevel *string `json:"current_energy_level"`
}

type ReflectionNoteRequest struct {
	Note string `json:"note"`
}
