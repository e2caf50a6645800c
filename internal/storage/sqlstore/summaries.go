package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

const summaryColumns = "id, date, dominant_energy, anchors_completed, tasks_completed, thoughts_captured, reflection, created_at"

// SaveDailySummary inserts or replaces the summary for its date. created_at is
// kept from the first snapshot.
func (s *Store) SaveDailySummary(ctx context.Context, sum models.DailySummary) (models.DailySummary, error) {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO daily_summaries
			(date, dominant_energy, anchors_completed, tasks_completed, thoughts_captured, reflection, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			dominant_energy = excluded.dominant_energy,
			anchors_completed = excluded.anchors_completed,
			tasks_completed = excluded.tasks_completed,
			thoughts_captured = excluded.thoughts_captured,
			reflection = excluded.reflection`,
		sum.Date, nullString(string(sum.DominantEnergy)), sum.AnchorsDone, sum.TasksDone,
		sum.ThoughtsCaught, nullString(sum.ReflectionNote), formatTime(sum.CreatedAt))
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to save daily summary: %w", err)
	}
	return s.GetDailySummary(ctx, sum.Date)
}

func (s *Store) GetDailySummary(ctx context.Context, date string) (models.DailySummary, error) {
	row := s.queryRow(ctx, s.db, "SELECT "+summaryColumns+" FROM daily_summaries WHERE date = ?", date)
	sum, err := scanSummary(row)
	if err != nil {
		return models.DailySummary{}, notFound(err, "daily summary for %s", date)
	}
	return sum, nil
}

// GetDailySummaries returns summaries with fromDate <= date <= toDate.
// Empty bounds are open.
func (s *Store) GetDailySummaries(ctx context.Context, fromDate, toDate string) ([]models.DailySummary, error) {
	query := "SELECT " + summaryColumns + " FROM daily_summaries"
	var conds []string
	var args []any
	if fromDate != "" {
		conds = append(conds, "date >= ?")
		args = append(args, fromDate)
	}
	if toDate != "" {
		conds = append(conds, "date <= ?")
		args = append(args, toDate)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date"

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.DailySummary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func scanSummary(sc scanner) (models.DailySummary, error) {
	var sum models.DailySummary
	var dominant, reflection sql.NullString
	var createdAt string
	err := sc.Scan(&sum.ID, &sum.Date, &dominant, &sum.AnchorsDone, &sum.TasksDone,
		&sum.ThoughtsCaught, &reflection, &createdAt)
	if err != nil {
		return models.DailySummary{}, err
	}
	if sum.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	sum.DominantEnergy = constants.EnergyLevel(dominant.String)
	sum.ReflectionNote = reflection.String
	return sum, nil
}
