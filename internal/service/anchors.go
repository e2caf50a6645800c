package service

import (
	"context"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/validation"
)

// Anchors lists all anchors with whether each one is done today
func (s *Service) Anchors(ctx context.Context) ([]models.AnchorStatus, error) {
	anchors, err := s.store.GetAllAnchors(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.store.GetAnchorCompletionsForDate(ctx, s.today())
	if err != nil {
		return nil, err
	}

	done := make(map[int64]bool, len(completions))
	for _, c := range completions {
		done[c.AnchorID] = true
	}

	result := make([]models.AnchorStatus, 0, len(anchors))
	for _, a := range anchors {
		result = append(result, models.AnchorStatus{Anchor: a, Active: done[a.ID]})
	}
	return result, nil
}

// CreateAnchor appends a new anchor. Without an explicit sort order it goes last.
func (s *Service) CreateAnchor(ctx context.Context, req models.CreateAnchorRequest) (models.Anchor, error) {
	if err := validation.CreateAnchor(req); err != nil {
		return models.Anchor{}, err
	}

	anchor := models.Anchor{Label: req.Label, Icon: req.Icon, CreatedAt: s.now()}
	if req.SortOrder != nil {
		anchor.SortOrder = *req.SortOrder
	} else {
		existing, err := s.store.GetAllAnchors(ctx)
		if err != nil {
			return models.Anchor{}, err
		}
		anchor.SortOrder = len(existing)
	}
	return s.store.AddAnchor(ctx, anchor)
}

// DeleteAnchor removes the anchor and its completion history
func (s *Service) DeleteAnchor(ctx context.Context, id int64) error {
	return s.store.DeleteAnchor(ctx, id)
}

// ToggleAnchor flips today's completion of the anchor. Checking it records
// activity; unchecking never reverses the streak.
func (s *Service) ToggleAnchor(ctx context.Context, id int64) (models.AnchorStatus, error) {
	anchor, err := s.store.GetAnchor(ctx, id)
	if err != nil {
		return models.AnchorStatus{}, err
	}

	today := s.today()
	removed, err := s.store.RemoveAnchorCompletion(ctx, id, today)
	if err != nil {
		return models.AnchorStatus{}, err
	}
	if removed {
		s.metrics.RecordAnchorToggle(false)
		return models.AnchorStatus{Anchor: anchor, Active: false}, nil
	}

	if _, err := s.store.AddAnchorCompletion(ctx, models.AnchorCompletion{
		AnchorID:      id,
		CompletedDate: today,
		CompletedAt:   s.now(),
	}); err != nil {
		return models.AnchorStatus{}, err
	}
	s.metrics.RecordAnchorToggle(true)
	if err := s.recordActivity(ctx, constants.ActivityAnchor); err != nil {
		return models.AnchorStatus{}, err
	}
	return models.AnchorStatus{Anchor: anchor, Active: true}, nil
}
