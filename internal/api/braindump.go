package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
)

func (h *handler) listTags(c *fiber.Ctx) error {
	tags, err := h.svc.Tags(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tags)
}

func (h *handler) createTag(c *fiber.Ctx) error {
	var req models.CreateTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tag, err := h.svc.CreateTag(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, tag)
}

func (h *handler) deleteTag(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTag(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}

// listBrainDump supports ?search=&category=&tagIds=1,2&includeArchived=true
func (h *handler) listBrainDump(c *fiber.Ctx) error {
	tagIDs, err := queryIDs(c, "tagIds")
	if err != nil {
		return err
	}
	entries, err := h.svc.BrainDump(c.UserContext(), models.BrainDumpFilter{
		Search:          queryString(c, "search"),
		Category:        constants.Category(queryString(c, "category")),
		TagIDs:          tagIDs,
		IncludeArchived: c.QueryBool("includeArchived", false),
	})
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (h *handler) addBrainDump(c *fiber.Ctx) error {
	var req models.BrainDumpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.AddBrainDump(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, entry)
}

func (h *handler) updateBrainDump(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req models.UpdateBrainDumpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.UpdateBrainDump(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (h *handler) setCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req models.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.SetCategory(c.UserContext(), id, req.Category)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (h *handler) archiveBrainDump(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.ArchiveBrainDump(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}

func (h *handler) deleteBrainDump(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBrainDump(c.UserContext(), id); err != nil {
		return err
	}
	return noContent(c)
}

func (h *handler) categorize(c *fiber.Ctx) error {
	var req models.CategorizeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.Categorize(req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
