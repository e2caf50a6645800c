package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

const defaultAnchorIcon = "circle"

func (s *Store) AddAnchor(ctx context.Context, anchor models.Anchor) (models.Anchor, error) {
	if anchor.Icon == "" {
		anchor.Icon = defaultAnchorIcon
	}
	id, err := s.insert(ctx, s.db, `
		INSERT INTO anchors (label, icon, sort_order, created_at)
		VALUES (?, ?, ?, ?)`,
		anchor.Label, anchor.Icon, anchor.SortOrder, formatTime(anchor.CreatedAt))
	if err != nil {
		return models.Anchor{}, fmt.Errorf("failed to insert anchor: %w", err)
	}
	return s.GetAnchor(ctx, id)
}

func (s *Store) GetAnchor(ctx context.Context, id int64) (models.Anchor, error) {
	row := s.queryRow(ctx, s.db, `
		SELECT id, label, icon, sort_order, created_at
		FROM anchors WHERE id = ?`, id)
	a, err := scanAnchor(row)
	if err != nil {
		return models.Anchor{}, notFound(err, "anchor %d", id)
	}
	return a, nil
}

func (s *Store) GetAllAnchors(ctx context.Context) ([]models.Anchor, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT id, label, icon, sort_order, created_at
		FROM anchors ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anchors := []models.Anchor{}
	for rows.Next() {
		a, err := scanAnchor(rows)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, a)
	}
	return anchors, rows.Err()
}

// DeleteAnchor removes the anchor and its completion history
func (s *Store) DeleteAnchor(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "DELETE FROM anchor_completions WHERE anchor_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete anchor completions: %w", err)
		}
		ok, err := s.execAffecting(ctx, tx, "DELETE FROM anchors WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete anchor: %w", err)
		}
		if !ok {
			return apperrors.NotFoundf("anchor %d", id)
		}
		return nil
	})
}

func (s *Store) AddAnchorCompletion(ctx context.Context, c models.AnchorCompletion) (bool, error) {
	inserted, err := s.execAffecting(ctx, s.db, `
		INSERT INTO anchor_completions (anchor_id, completed_date, completed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (anchor_id, completed_date) DO NOTHING`,
		c.AnchorID, c.CompletedDate, formatTime(c.CompletedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert anchor completion: %w", err)
	}
	return inserted, nil
}

func (s *Store) RemoveAnchorCompletion(ctx context.Context, anchorID int64, date string) (bool, error) {
	removed, err := s.execAffecting(ctx, s.db,
		"DELETE FROM anchor_completions WHERE anchor_id = ? AND completed_date = ?", anchorID, date)
	if err != nil {
		return false, fmt.Errorf("failed to delete anchor completion: %w", err)
	}
	return removed, nil
}

func (s *Store) GetAnchorCompletionsForDate(ctx context.Context, date string) ([]models.AnchorCompletion, error) {
	return s.listCompletions(ctx, `
		SELECT id, anchor_id, completed_date, completed_at
		FROM anchor_completions WHERE completed_date = ? ORDER BY anchor_id`, date)
}

func (s *Store) GetAllAnchorCompletions(ctx context.Context) ([]models.AnchorCompletion, error) {
	return s.listCompletions(ctx, `
		SELECT id, anchor_id, completed_date, completed_at
		FROM anchor_completions ORDER BY completed_date, anchor_id`)
}

func (s *Store) CountAnchorCompletions(ctx context.Context, fromDate, toDate string) (int, error) {
	var n int
	err := s.queryRow(ctx, s.db, `
		SELECT count(*) FROM anchor_completions
		WHERE completed_date >= ? AND completed_date <= ?`, fromDate, toDate).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count anchor completions: %w", err)
	}
	return n, nil
}

func (s *Store) listCompletions(ctx context.Context, query string, args ...any) ([]models.AnchorCompletion, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.AnchorCompletion{}
	for rows.Next() {
		var c models.AnchorCompletion
		var completedAt string
		if err := rows.Scan(&c.ID, &c.AnchorID, &c.CompletedDate, &completedAt); err != nil {
			return nil, err
		}
		if c.CompletedAt, err = utils.ParseTimestamp(completedAt); err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func scanAnchor(sc scanner) (models.Anchor, error) {
	var a models.Anchor
	var createdAt string
	if err := sc.Scan(&a.ID, &a.Label, &a.Icon, &a.SortOrder, &createdAt); err != nil {
		return models.Anchor{}, err
	}
	t, err := utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.Anchor{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	a.CreatedAt = t
	return a, nil
}
