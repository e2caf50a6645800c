package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/sanctuary/internal/models"
)

func (h *handler) currentEnergy(c *fiber.Ctx) error {
	state, err := h.svc.CurrentEnergy(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (h *handler) logEnergy(c *fiber.Ctx) error {
	var req models.LogEnergyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.LogEnergy(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, entry)
}

func (h *handler) energyLogs(c *fiber.Ctx) error {
	logs, err := h.svc.EnergyLogs(c.UserContext(), queryString(c, "startDate"), queryString(c, "endDate"))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

func (h *handler) energyPatterns(c *fiber.Ctx) error {
	days, err := queryInt(c, "days")
	if err != nil {
		return err
	}
	patterns, err := h.svc.EnergyPatterns(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(patterns)
}

func (h *handler) energyInsights(c *fiber.Ctx) error {
	days, err := queryInt(c, "days")
	if err != nil {
		return err
	}
	insights, err := h.svc.EnergyInsights(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(insights)
}
