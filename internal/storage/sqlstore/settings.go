package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

const (
	settingWeeklyTarget  = "weekly_target"
	settingCurrentEnergy = "current_energy_level"
	settingUpdatedAt     = "updated_at"
)

// GetSettings reads the key/value settings table. On first read the defaults
// are persisted and returned.
func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	rows, err := s.query(ctx, s.db, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case settingWeeklyTarget:
			n, err := strconv.Atoi(value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing weekly_target: %w", err)
			}
			settings.WeeklyTarget = n
		case settingCurrentEnergy:
			settings.CurrentEnergyLevel = constants.EnergyLevel(value)
		case settingUpdatedAt:
			t, err := utils.ParseTimestamp(value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing updated_at: %w", err)
			}
			settings.UpdatedAt = t
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	rows.Close()

	if count == 0 {
		settings = models.DefaultSettings()
		settings.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		if err := s.SaveSettings(ctx, settings); err != nil {
			return models.Settings{}, fmt.Errorf("failed to save default settings: %w", err)
		}
		return settings, nil
	}

	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.rebind(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		if _, err := stmt.ExecContext(ctx, settingWeeklyTarget, strconv.Itoa(settings.WeeklyTarget)); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, settingCurrentEnergy, string(settings.CurrentEnergyLevel)); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, settingUpdatedAt, formatTime(settings.UpdatedAt)); err != nil {
			return err
		}
		return nil
	})
}

// ============= STREAK =============

// GetStreak returns the singleton streak row, creating {0, 0, unset} when absent
func (s *Store) GetStreak(ctx context.Context) (models.Streak, error) {
	streak, err := s.readStreak(ctx, s.db)
	if err == nil {
		return streak, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Streak{}, err
	}

	streak = models.Streak{UpdatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if _, err := s.exec(ctx, s.db, `
		INSERT INTO streaks (id, current_streak, longest_streak, last_active_date, updated_at)
		VALUES (1, 0, 0, NULL, ?)
		ON CONFLICT (id) DO NOTHING`, formatTime(streak.UpdatedAt)); err != nil {
		return models.Streak{}, fmt.Errorf("failed to create streak: %w", err)
	}
	return s.readStreak(ctx, s.db)
}

func (s *Store) SaveStreak(ctx context.Context, streak models.Streak) error {
	return s.writeStreak(ctx, s.db, streak)
}

// UpdateStreak applies fn to the stored streak inside a transaction. fn reports
// whether the streak changed; unchanged streaks are not written.
func (s *Store) UpdateStreak(ctx context.Context, fn func(models.Streak) (models.Streak, bool)) (models.Streak, error) {
	var result models.Streak
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.readStreak(ctx, tx)
		if errors.Is(err, sql.ErrNoRows) {
			current = models.Streak{}
		} else if err != nil {
			return err
		}

		next, changed := fn(current)
		if !changed {
			result = current
			return nil
		}
		if next.UpdatedAt.IsZero() {
			next.UpdatedAt = time.Now()
		}
		if err := s.writeStreak(ctx, tx, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return models.Streak{}, err
	}
	result.UpdatedAt = result.UpdatedAt.UTC().Truncate(time.Millisecond)
	return result, nil
}

func (s *Store) readStreak(ctx context.Context, q queryer) (models.Streak, error) {
	var st models.Streak
	var lastActive sql.NullString
	var updatedAt string
	err := s.queryRow(ctx, q, `
		SELECT current_streak, longest_streak, last_active_date, updated_at
		FROM streaks WHERE id = 1`).Scan(&st.CurrentStreak, &st.LongestStreak, &lastActive, &updatedAt)
	if err != nil {
		return models.Streak{}, err
	}
	if st.UpdatedAt, err = utils.ParseTimestamp(updatedAt); err != nil {
		return models.Streak{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	st.LastActiveDate = lastActive.String
	return st, nil
}

func (s *Store) writeStreak(ctx context.Context, q queryer, st models.Streak) error {
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	_, err := s.exec(ctx, q, `
		INSERT INTO streaks (id, current_streak, longest_streak, last_active_date, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_active_date = excluded.last_active_date,
			updated_at = excluded.updated_at`,
		st.CurrentStreak, st.LongestStreak, nullString(st.LastActiveDate), formatTime(st.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}
