package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

func (s *Store) AddEnergyLog(ctx context.Context, log models.EnergyLog) (models.EnergyLog, error) {
	id, err := s.insert(ctx, s.db, `
		INSERT INTO energy_logs (level, note, logged_at)
		VALUES (?, ?, ?)`,
		string(log.Level), nullString(log.Note), formatTime(log.LoggedAt))
	if err != nil {
		return models.EnergyLog{}, fmt.Errorf("failed to insert energy log: %w", err)
	}
	log.ID = id
	log.LoggedAt = log.LoggedAt.UTC().Truncate(time.Millisecond)
	return log, nil
}

func (s *Store) GetEnergyLogs(ctx context.Context, from, to time.Time) ([]models.EnergyLog, error) {
	query := "SELECT id, level, note, logged_at FROM energy_logs"
	var conds []string
	var args []any
	if !from.IsZero() {
		conds = append(conds, "logged_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "logged_at < ?")
		args = append(args, formatTime(to))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY logged_at, id"

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.EnergyLog{}
	for rows.Next() {
		l, err := scanEnergyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) GetLatestEnergyLog(ctx context.Context) (models.EnergyLog, error) {
	row := s.queryRow(ctx, s.db, `
		SELECT id, level, note, logged_at FROM energy_logs
		ORDER BY logged_at DESC, id DESC LIMIT 1`)
	l, err := scanEnergyLog(row)
	if err != nil {
		return models.EnergyLog{}, notFound(err, "energy log")
	}
	return l, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEnergyLog(sc scanner) (models.EnergyLog, error) {
	var l models.EnergyLog
	var level, loggedAt string
	var note sql.NullString
	if err := sc.Scan(&l.ID, &level, &note, &loggedAt); err != nil {
		return models.EnergyLog{}, err
	}
	t, err := utils.ParseTimestamp(loggedAt)
	if err != nil {
		return models.EnergyLog{}, fmt.Errorf("failed to parse logged_at: %w", err)
	}
	l.Level = constants.EnergyLevel(level)
	l.Note = note.String
	l.LoggedAt = t
	return l, nil
}
