package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/sanctuary/internal/models"
)

func (h *handler) listTemplates(c *fiber.Ctx) error {
	templates, err := h.svc.Templates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(templates)
}

func (h *handler) createTemplate(c *fiber.Ctx) error {
	var req models.CreateTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tmpl, err := h.svc.CreateTemplate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, tmpl)
}

func (h *handler) templateSteps(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	steps, err := h.svc.TemplateSteps(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(steps)
}

func (h *handler) createTemplateStep(c *fiber.Ctx) error {
	var req models.CreateTemplateStepRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	step, err := h.svc.CreateTemplateStep(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, step)
}

func (h *handler) listProjects(c *fiber.Ctx) error {
	projects, err := h.svc.Projects(c.UserContext(), c.QueryBool("activeOnly", false))
	if err != nil {
		return err
	}
	return c.JSON(projects)
}

func (h *handler) createProject(c *fiber.Ctx) error {
	var req models.CreateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	project, err := h.svc.CreateProject(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, project)
}

func (h *handler) completeProject(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	project, err := h.svc.CompleteProject(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

func (h *handler) projectSteps(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	steps, err := h.svc.ProjectSteps(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(steps)
}

func (h *handler) reorderSteps(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req models.ReorderStepsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	steps, err := h.svc.ReorderSteps(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(steps)
}

func (h *handler) createStep(c *fiber.Ctx) error {
	var req models.CreateStepRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	step, err := h.svc.CreateStep(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, step)
}

func (h *handler) toggleStep(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	step, err := h.svc.ToggleProjectStep(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(step)
}
