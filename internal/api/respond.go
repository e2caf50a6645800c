package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/logger"
)

type errorBody struct {
	Error  string            `json:"error"`
	Issues []apperrors.Issue `json:"issues,omitempty"`
}

// errorHandler maps service errors onto status codes. Unexpected errors are
// logged and reported without detail.
func errorHandler(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "validation failed", Issues: ve.Issues})
	}
	switch {
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(errorBody{Error: err.Error()})
	case apperrors.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(errorBody{Error: err.Error()})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorBody{Error: fe.Message})
	}

	logger.Error("Request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "internal server error"})
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

// paramString copies a route parameter out of fiber's reused buffer
func paramString(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Params(key))
}

func queryString(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Query(key))
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Invalid(key, "must be an integer")
	}
	return n, nil
}

func queryIDs(c *fiber.Ctx, key string) ([]int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, apperrors.Invalid(key, "must be a comma separated list of positive ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Invalid("body", "must be a valid JSON object")
	}
	return nil
}

func created(c *fiber.Ctx, v interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}

func noContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
