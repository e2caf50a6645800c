package service

import (
	"context"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/insights"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/validation"
)

func (s *Service) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.store.GetAllTags(ctx)
}

// CreateTag adds a tag. Names are unique; a duplicate yields ErrConflict.
func (s *Service) CreateTag(ctx context.Context, req models.CreateTagRequest) (models.Tag, error) {
	if err := validation.CreateTag(req); err != nil {
		return models.Tag{}, err
	}
	return s.store.AddTag(ctx, models.Tag{Name: req.Name, Color: req.Color, CreatedAt: s.now()})
}

// DeleteTag removes the tag. Entries keep the dangling id, which every reader
// ignores.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	return s.store.DeleteTag(ctx, id)
}

func (s *Service) BrainDump(ctx context.Context, filter models.BrainDumpFilter) ([]models.BrainDumpEntry, error) {
	if filter.Category != "" {
		if err := validation.Category("category", string(filter.Category)); err != nil {
			return nil, err
		}
	}
	return s.store.GetBrainDumpEntries(ctx, filter)
}

// AddBrainDump captures a thought. An explicit category wins; otherwise the
// text is categorized.
func (s *Service) AddBrainDump(ctx context.Context, req models.BrainDumpRequest) (models.BrainDumpEntry, error) {
	if err := validation.BrainDump(req); err != nil {
		return models.BrainDumpEntry{}, err
	}

	category := constants.Category(req.Category)
	if category == "" {
		category = insights.Categorize(req.Text)
	}
	tagIDs := req.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}

	entry, err := s.store.AddBrainDumpEntry(ctx, models.BrainDumpEntry{
		Text:      req.Text,
		Category:  category,
		TagIDs:    tagIDs,
		CreatedAt: s.now(),
	})
	if err != nil {
		return models.BrainDumpEntry{}, err
	}

	s.metrics.RecordBrainDump(entry.Category)
	if err := s.recordActivity(ctx, constants.ActivityBrainDump); err != nil {
		return models.BrainDumpEntry{}, err
	}
	return entry, nil
}

// UpdateBrainDump applies the fields present in req. An explicitly empty
// category recategorizes the (possibly new) text.
func (s *Service) UpdateBrainDump(ctx context.Context, id int64, req models.UpdateBrainDumpRequest) (models.BrainDumpEntry, error) {
	if err := validation.UpdateBrainDump(req); err != nil {
		return models.BrainDumpEntry{}, err
	}

	entry, err := s.store.GetBrainDumpEntry(ctx, id)
	if err != nil {
		return models.BrainDumpEntry{}, err
	}
	if req.Text != nil {
		entry.Text = *req.Text
	}
	if req.TagIDs != nil {
		entry.TagIDs = *req.TagIDs
	}
	if req.Category != nil {
		entry.Category = constants.Category(*req.Category)
		if entry.Category == "" {
			entry.Category = insights.Categorize(entry.Text)
		}
	}
	return s.store.UpdateBrainDumpEntry(ctx, entry)
}

// SetCategory overrides the category of entry id
func (s *Service) SetCategory(ctx context.Context, id int64, category string) (models.BrainDumpEntry, error) {
	if err := validation.Category("category", category); err != nil {
		return models.BrainDumpEntry{}, err
	}
	return s.UpdateBrainDump(ctx, id, models.UpdateBrainDumpRequest{Category: &category})
}

func (s *Service) ArchiveBrainDump(ctx context.Context, id int64) error {
	return s.store.ArchiveBrainDumpEntry(ctx, id, s.now())
}

func (s *Service) DeleteBrainDump(ctx context.Context, id int64) error {
	return s.store.DeleteBrainDumpEntry(ctx, id)
}

// Categorize classifies text without storing anything
func (s *Service) Categorize(req models.CategorizeRequest) (models.CategorizeResponse, error) {
	if err := validation.Categorize(req); err != nil {
		return models.CategorizeResponse{}, err
	}
	return models.CategorizeResponse{Category: string(insights.Categorize(req.Text))}, nil
}
