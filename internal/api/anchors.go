package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/sanctuary/internal/models"
)

func (h *handler) listAnchors(c *fiber.Ctx) error {
	anchors, err := h.svc.Anchors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(anchors)
}

func (h *handler) createAnchor(c *fiber.Ctx) error {
	var req models.CreateAnchorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	anchor, err := h.svc.CreateAnchor(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, anchor)
}

func (h *handler) toggleAnchor(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	status, err := h.svc.ToggleAnchor(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func (h *handler) deleteAnchor(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAnchor(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}
