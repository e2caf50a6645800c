package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/export"
	"github.com/julianstephens/sanctuary/internal/models"
)

func (h *handler) health(c *fiber.Ctx) error {
	status, code := "healthy", fiber.StatusOK
	if db := h.svc.Store().GetDB(); db == nil || db.PingContext(c.UserContext()) != nil {
		status, code = "unhealthy", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) dashboard(c *fiber.Ctx) error {
	d, err := h.svc.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *handler) getSettings(c *fiber.Ctx) error {
	s, err := h.svc.Settings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *handler) updateSettings(c *fiber.Ctx) error {
	var req models.UpdateSettingsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	s, err := h.svc.UpdateSettings(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *handler) export(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return apperrors.Invalid("format", "must be json or xlsx")
	}
	data, err := h.svc.Export(c.UserContext())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, data, format); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename(data, format)))
	return c.Send(buf.Bytes())
}
