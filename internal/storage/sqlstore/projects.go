package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

const (
	templateColumns = "id, name, description, is_default, created_at"
	projectColumns  = "id, name, description, template_id, is_active, created_at, completed_at"
	stepColumns     = "id, project_id, title, description, effort, completed, completed_at, sort_order"
	tmplStepColumns = "id, template_id, title, description, effort, sort_order"
)

// ============= TEMPLATES =============

func (s *Store) AddTemplate(ctx context.Context, t models.ProjectTemplate) (models.ProjectTemplate, error) {
	id, err := s.insert(ctx, s.db, `
		INSERT INTO project_templates (name, description, is_default, created_at)
		VALUES (?, ?, ?, ?)`,
		t.Name, nullString(t.Description), t.IsDefault, formatTime(t.CreatedAt))
	if err != nil {
		return models.ProjectTemplate{}, fmt.Errorf("failed to insert template: %w", err)
	}
	return s.GetTemplate(ctx, id)
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (models.ProjectTemplate, error) {
	row := s.queryRow(ctx, s.db, "SELECT "+templateColumns+" FROM project_templates WHERE id = ?", id)
	t, err := scanTemplate(row)
	if err != nil {
		return models.ProjectTemplate{}, notFound(err, "template %d", id)
	}
	return t, nil
}

func (s *Store) GetAllTemplates(ctx context.Context) ([]models.ProjectTemplate, error) {
	rows, err := s.query(ctx, s.db, "SELECT "+templateColumns+" FROM project_templates ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []models.ProjectTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *Store) AddTemplateStep(ctx context.Context, step models.TemplateStep) (models.TemplateStep, error) {
	if step.Effort == "" {
		step.Effort = constants.EffortMedium
	}
	id, err := s.insert(ctx, s.db, `
		INSERT INTO template_steps (template_id, title, description, effort, sort_order)
		VALUES (?, ?, ?, ?, ?)`,
		step.TemplateID, step.Title, nullString(step.Description), string(step.Effort), step.SortOrder)
	if err != nil {
		return models.TemplateStep{}, fmt.Errorf("failed to insert template step: %w", err)
	}
	step.ID = id
	return step, nil
}

func (s *Store) GetTemplateSteps(ctx context.Context, templateID int64) ([]models.TemplateStep, error) {
	return s.listTemplateSteps(ctx, s.db,
		"SELECT "+tmplStepColumns+" FROM template_steps WHERE template_id = ? ORDER BY sort_order, id", templateID)
}

func (s *Store) GetAllTemplateSteps(ctx context.Context) ([]models.TemplateStep, error) {
	return s.listTemplateSteps(ctx, s.db,
		"SELECT "+tmplStepColumns+" FROM template_steps ORDER BY template_id, sort_order, id")
}

func (s *Store) listTemplateSteps(ctx context.Context, q queryer, query string, args ...any) ([]models.TemplateStep, error) {
	rows, err := s.query(ctx, q, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []models.TemplateStep{}
	for rows.Next() {
		var st models.TemplateStep
		var desc sql.NullString
		var effort string
		if err := rows.Scan(&st.ID, &st.TemplateID, &st.Title, &desc, &effort, &st.SortOrder); err != nil {
			return nil, err
		}
		st.Description = desc.String
		st.Effort = constants.Effort(effort)
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// ============= PROJECTS =============

func (s *Store) AddProject(ctx context.Context, p models.Project) (models.Project, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insertProject(ctx, tx, p)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, id)
}

func (s *Store) AddProjectFromTemplate(ctx context.Context, p models.Project, templateID int64) (models.Project, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := s.queryRow(ctx, tx, "SELECT count(*) FROM project_templates WHERE id = ?", templateID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return apperrors.NotFoundf("template %d", templateID)
		}

		p.TemplateID = &templateID
		id, err = s.insertProject(ctx, tx, p)
		if err != nil {
			return err
		}

		steps, err := s.listTemplateSteps(ctx, tx,
			"SELECT "+tmplStepColumns+" FROM template_steps WHERE template_id = ? ORDER BY sort_order, id", templateID)
		if err != nil {
			return fmt.Errorf("failed to read template steps: %w", err)
		}
		for _, st := range steps {
			_, err := s.exec(ctx, tx, `
				INSERT INTO project_steps (project_id, title, description, effort, completed, sort_order)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, st.Title, nullString(st.Description), string(st.Effort), false, st.SortOrder)
			if err != nil {
				return fmt.Errorf("failed to copy template step: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, id)
}

func (s *Store) insertProject(ctx context.Context, tx *sql.Tx, p models.Project) (int64, error) {
	var templateID sql.NullInt64
	if p.TemplateID != nil {
		templateID = sql.NullInt64{Int64: *p.TemplateID, Valid: true}
	}
	id, err := s.insert(ctx, tx, `
		INSERT INTO projects (name, description, template_id, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, nullString(p.Description), templateID, true, formatTime(p.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (models.Project, error) {
	row := s.queryRow(ctx, s.db, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err != nil {
		return models.Project{}, notFound(err, "project %d", id)
	}
	return p, nil
}

func (s *Store) GetProjects(ctx context.Context, activeOnly bool) ([]models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects"
	var args []any
	if activeOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) CompleteProject(ctx context.Context, id int64, at time.Time) (models.Project, error) {
	ok, err := s.execAffecting(ctx, s.db,
		"UPDATE projects SET is_active = ?, completed_at = COALESCE(completed_at, ?) WHERE id = ?",
		false, formatTime(at), id)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to complete project: %w", err)
	}
	if !ok {
		return models.Project{}, apperrors.NotFoundf("project %d", id)
	}
	return s.GetProject(ctx, id)
}

// ============= PROJECT STEPS =============

func (s *Store) AddProjectStep(ctx context.Context, step models.ProjectStep) (models.ProjectStep, error) {
	if step.Effort == "" {
		step.Effort = constants.EffortMedium
	}
	id, err := s.insert(ctx, s.db, `
		INSERT INTO project_steps (project_id, title, description, effort, completed, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)`,
		step.ProjectID, step.Title, nullString(step.Description), string(step.Effort), false, step.SortOrder)
	if err != nil {
		return models.ProjectStep{}, fmt.Errorf("failed to insert project step: %w", err)
	}
	return s.GetProjectStep(ctx, id)
}

func (s *Store) GetProjectStep(ctx context.Context, id int64) (models.ProjectStep, error) {
	return s.getProjectStep(ctx, s.db, id)
}

func (s *Store) getProjectStep(ctx context.Context, q queryer, id int64) (models.ProjectStep, error) {
	row := s.queryRow(ctx, q, "SELECT "+stepColumns+" FROM project_steps WHERE id = ?", id)
	st, err := scanProjectStep(row)
	if err != nil {
		return models.ProjectStep{}, notFound(err, "project step %d", id)
	}
	return st, nil
}

func (s *Store) GetProjectSteps(ctx context.Context, projectID int64) ([]models.ProjectStep, error) {
	return s.listProjectSteps(ctx,
		"SELECT "+stepColumns+" FROM project_steps WHERE project_id = ? ORDER BY sort_order, id", projectID)
}

func (s *Store) GetAllProjectSteps(ctx context.Context) ([]models.ProjectStep, error) {
	return s.listProjectSteps(ctx,
		"SELECT "+stepColumns+" FROM project_steps ORDER BY project_id, sort_order, id")
}

func (s *Store) listProjectSteps(ctx context.Context, query string, args ...any) ([]models.ProjectStep, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []models.ProjectStep{}
	for rows.Next() {
		st, err := scanProjectStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// ToggleProjectStep flips the step's completion. completed_at is set to at
// when the step becomes completed and cleared when it is reopened.
func (s *Store) ToggleProjectStep(ctx context.Context, id int64, at time.Time) (models.ProjectStep, error) {
	var step models.ProjectStep
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getProjectStep(ctx, tx, id)
		if err != nil {
			return err
		}

		completed := !current.Completed
		completedAt := sql.NullString{}
		if completed {
			completedAt = sql.NullString{String: formatTime(at), Valid: true}
		}
		if _, err := s.exec(ctx, tx,
			"UPDATE project_steps SET completed = ?, completed_at = ? WHERE id = ?",
			completed, completedAt, id); err != nil {
			return fmt.Errorf("failed to toggle project step: %w", err)
		}

		step, err = s.getProjectStep(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.ProjectStep{}, err
	}
	return step, nil
}

// ReorderProjectSteps assigns sort_order by position in stepIDs. Every id must
// belong to the project.
func (s *Store) ReorderProjectSteps(ctx context.Context, projectID int64, stepIDs []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for i, id := range stepIDs {
			ok, err := s.execAffecting(ctx, tx,
				"UPDATE project_steps SET sort_order = ? WHERE id = ? AND project_id = ?", i, id, projectID)
			if err != nil {
				return fmt.Errorf("failed to reorder project steps: %w", err)
			}
			if !ok {
				return apperrors.NotFoundf("project step %d in project %d", id, projectID)
			}
		}
		return nil
	})
}

func (s *Store) CountCompletedSteps(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.queryRow(ctx, s.db, `
		SELECT count(*) FROM project_steps
		WHERE completed = ? AND completed_at >= ? AND completed_at < ?`,
		true, formatTime(from), formatTime(to)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed steps: %w", err)
	}
	return n, nil
}

func scanTemplate(sc scanner) (models.ProjectTemplate, error) {
	var t models.ProjectTemplate
	var desc sql.NullString
	var createdAt string
	if err := sc.Scan(&t.ID, &t.Name, &desc, &t.IsDefault, &createdAt); err != nil {
		return models.ProjectTemplate{}, err
	}
	ts, err := utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.ProjectTemplate{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	t.Description = desc.String
	t.CreatedAt = ts
	return t, nil
}

func scanProject(sc scanner) (models.Project, error) {
	var p models.Project
	var desc, completedAt sql.NullString
	var templateID sql.NullInt64
	var createdAt string
	if err := sc.Scan(&p.ID, &p.Name, &desc, &templateID, &p.IsActive, &createdAt, &completedAt); err != nil {
		return models.Project{}, err
	}
	ts, err := utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	p.CreatedAt = ts
	if p.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return models.Project{}, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	if templateID.Valid {
		id := templateID.Int64
		p.TemplateID = &id
	}
	p.Description = desc.String
	return p, nil
}

func scanProjectStep(sc scanner) (models.ProjectStep, error) {
	var st models.ProjectStep
	var desc, completedAt sql.NullString
	var effort string
	if err := sc.Scan(&st.ID, &st.ProjectID, &st.Title, &desc, &effort, &st.Completed, &completedAt, &st.SortOrder); err != nil {
		return models.ProjectStep{}, err
	}
	var err error
	if st.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return models.ProjectStep{}, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	st.Description = desc.String
	st.Effort = constants.Effort(effort)
	return st, nil
}
