package service

import (
	"context"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/validation"
)

func effortOrDefault(raw string) constants.Effort {
	if raw == "" {
		return constants.EffortMedium
	}
	return constants.Effort(raw)
}

func (s *Service) Templates(ctx context.Context) ([]models.ProjectTemplate, error) {
	return s.store.GetAllTemplates(ctx)
}

func (s *Service) CreateTemplate(ctx context.Context, req models.CreateTemplateRequest) (models.ProjectTemplate, error) {
	if err := validation.CreateTemplate(req); err != nil {
		return models.ProjectTemplate{}, err
	}
	return s.store.AddTemplate(ctx, models.ProjectTemplate{
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   req.IsDefault,
		CreatedAt:   s.now(),
	})
}

// TemplateSteps returns the steps of template id in order
func (s *Service) TemplateSteps(ctx context.Context, id int64) ([]models.TemplateStep, error) {
	if _, err := s.store.GetTemplate(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetTemplateSteps(ctx, id)
}

func (s *Service) CreateTemplateStep(ctx context.Context, req models.CreateTemplateStepRequest) (models.TemplateStep, error) {
	if err := validation.CreateTemplateStep(req); err != nil {
		return models.TemplateStep{}, err
	}
	if _, err := s.store.GetTemplate(ctx, req.TemplateID); err != nil {
		return models.TemplateStep{}, err
	}

	step := models.TemplateStep{
		TemplateID:  req.TemplateID,
		Title:       req.Title,
		Description: req.Description,
		Effort:      effortOrDefault(req.Effort),
	}
	if req.SortOrder != nil {
		step.SortOrder = *req.SortOrder
	} else {
		existing, err := s.store.GetTemplateSteps(ctx, req.TemplateID)
		if err != nil {
			return models.TemplateStep{}, err
		}
		step.SortOrder = len(existing)
	}
	return s.store.AddTemplateStep(ctx, step)
}

func (s *Service) Projects(ctx context.Context, activeOnly bool) ([]models.Project, error) {
	return s.store.GetProjects(ctx, activeOnly)
}

// CreateProject creates an active project, copying the template's steps when
// a template is given.
func (s *Service) CreateProject(ctx context.Context, req models.CreateProjectRequest) (models.Project, error) {
	if err := validation.CreateProject(req); err != nil {
		return models.Project{}, err
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if req.TemplateID != nil {
		return s.store.AddProjectFromTemplate(ctx, project, *req.TemplateID)
	}
	return s.store.AddProject(ctx, project)
}

func (s *Service) CompleteProject(ctx context.Context, id int64) (models.Project, error) {
	return s.store.CompleteProject(ctx, id, s.now())
}

// ProjectSteps returns the steps of project id in order
func (s *Service) ProjectSteps(ctx context.Context, id int64) ([]models.ProjectStep, error) {
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetProjectSteps(ctx, id)
}

func (s *Service) CreateStep(ctx context.Context, req models.CreateStepRequest) (models.ProjectStep, error) {
	if err := validation.CreateStep(req); err != nil {
		return models.ProjectStep{}, err
	}
	if _, err := s.store.GetProject(ctx, req.ProjectID); err != nil {
		return models.ProjectStep{}, err
	}

	step := models.ProjectStep{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Effort:      effortOrDefault(req.Effort),
	}
	if req.SortOrder != nil {
		step.SortOrder = *req.SortOrder
	} else {
		existing, err := s.store.GetProjectSteps(ctx, req.ProjectID)
		if err != nil {
			return models.ProjectStep{}, err
		}
		step.SortOrder = len(existing)
	}
	return s.store.AddProjectStep(ctx, step)
}

// ToggleProjectStep flips the step. Completing it records activity; reopening
// it does not touch the streak.
func (s *Service) ToggleProjectStep(ctx context.Context, id int64) (models.ProjectStep, error) {
	step, err := s.store.ToggleProjectStep(ctx, id, s.now())
	if err != nil {
		return models.ProjectStep{}, err
	}
	s.metrics.RecordStepToggle(step.Completed)
	if step.Completed {
		if err := s.recordActivity(ctx, constants.ActivityStep); err != nil {
			return models.ProjectStep{}, err
		}
	}
	return step, nil
}

// ReorderSteps sets the step order of project id to req.StepIDs
func (s *Service) ReorderSteps(ctx context.Context, id int64, req models.ReorderStepsRequest) ([]models.ProjectStep, error) {
	if err := validation.ReorderSteps(req); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.ReorderProjectSteps(ctx, id, req.StepIDs); err != nil {
		return nil, err
	}
	return s.store.GetProjectSteps(ctx, id)
}
