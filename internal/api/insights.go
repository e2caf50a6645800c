package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/sanctuary/internal/models"
)

func (h *handler) momentum(c *fiber.Ctx) error {
	m, err := h.svc.Momentum(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (h *handler) streak(c *fiber.Ctx) error {
	s, err := h.svc.Streak(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *handler) reflection(c *fiber.Ctx) error {
	r, err := h.svc.WeeklyReflection(c.UserContext(), queryString(c, "weekStart"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *handler) listSummaries(c *fiber.Ctx) error {
	list, err := h.svc.DailySummaries(c.UserContext(), queryString(c, "from"), queryString(c, "to"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *handler) getSummary(c *fiber.Ctx) error {
	sum, err := h.svc.DailySummary(c.UserContext(), paramString(c, "date"))
	if err != nil {
		return err
	}
	return c.JSON(sum)
}

func (h *handler) snapshot(c *fiber.Ctx) error {
	sum, err := h.svc.Snapshot(c.UserContext(), paramString(c, "date"))
	if err != nil {
		return err
	}
	return c.JSON(sum)
}

func (h *handler) setReflection(c *fiber.Ctx) error {
	var req models.ReflectionNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sum, err := h.svc.SetReflectionNote(c.UserContext(), paramString(c, "date"), req)
	if err != nil {
		return err
	}
	return c.JSON(sum)
}
