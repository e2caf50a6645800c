package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	apperrors "github.com/julianstephens/sanctuary/internal/errors"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

const (
	defaultTagColor  = "nebula-cyan"
	brainDumpColumns = "id, text, category, tag_ids, created_at, archived_at"
)

// ============= TAGS =============

func (s *Store) AddTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	if tag.Color == "" {
		tag.Color = defaultTagColor
	}
	id, err := s.insert(ctx, s.db,
		"INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?)",
		tag.Name, tag.Color, formatTime(tag.CreatedAt))
	if err != nil {
		if s.isUniqueViolation(err) {
			return models.Tag{}, fmt.Errorf("tag %q already exists: %w", tag.Name, apperrors.ErrConflict)
		}
		return models.Tag{}, fmt.Errorf("failed to insert tag: %w", err)
	}
	tag.ID = id
	tag.CreatedAt = tag.CreatedAt.UTC().Truncate(time.Millisecond)
	return tag, nil
}

func (s *Store) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.query(ctx, s.db, "SELECT id, name, color, created_at FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &createdAt); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	ok, err := s.execAffecting(ctx, s.db, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if !ok {
		return apperrors.NotFoundf("tag %d", id)
	}
	return nil
}

// ============= BRAIN DUMP =============

func (s *Store) AddBrainDumpEntry(ctx context.Context, e models.BrainDumpEntry) (models.BrainDumpEntry, error) {
	tagIDs, err := encodeTagIDs(e.TagIDs)
	if err != nil {
		return models.BrainDumpEntry{}, err
	}
	id, err := s.insert(ctx, s.db, `
		INSERT INTO brain_dump_entries (text, category, tag_ids, created_at)
		VALUES (?, ?, ?, ?)`,
		e.Text, nullString(string(e.Category)), tagIDs, formatTime(e.CreatedAt))
	if err != nil {
		return models.BrainDumpEntry{}, fmt.Errorf("failed to insert brain dump entry: %w", err)
	}
	return s.GetBrainDumpEntry(ctx, id)
}

func (s *Store) GetBrainDumpEntry(ctx context.Context, id int64) (models.BrainDumpEntry, error) {
	row := s.queryRow(ctx, s.db, "SELECT "+brainDumpColumns+" FROM brain_dump_entries WHERE id = ?", id)
	e, err := scanBrainDumpEntry(row)
	if err != nil {
		return models.BrainDumpEntry{}, notFound(err, "brain dump entry %d", id)
	}
	return e, nil
}

// GetBrainDumpEntries applies the SQL expressible parts of the filter in the
// query and the tag filter afterwards, since tag ids are stored as JSON.
// An entry matches the tag filter when it carries any of the requested tags.
func (s *Store) GetBrainDumpEntries(ctx context.Context, f models.BrainDumpFilter) ([]models.BrainDumpEntry, error) {
	query := "SELECT " + brainDumpColumns + " FROM brain_dump_entries"
	var conds []string
	var args []any

	if !f.IncludeArchived {
		conds = append(conds, "archived_at IS NULL")
	}
	if strings.TrimSpace(f.Search) != "" {
		conds = append(conds, `LOWER(text) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(strings.TrimSpace(f.Search)))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "created_at < ?")
		args = append(args, formatTime(*f.To))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wanted := make(map[int64]bool, len(f.TagIDs))
	for _, id := range f.TagIDs {
		wanted[id] = true
	}

	entries := []models.BrainDumpEntry{}
	for rows.Next() {
		e, err := scanBrainDumpEntry(rows)
		if err != nil {
			return nil, err
		}
		if len(wanted) > 0 && !hasAnyTag(e.TagIDs, wanted) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) UpdateBrainDumpEntry(ctx context.Context, e models.BrainDumpEntry) (models.BrainDumpEntry, error) {
	tagIDs, err := encodeTagIDs(e.TagIDs)
	if err != nil {
		return models.BrainDumpEntry{}, err
	}
	ok, err := s.execAffecting(ctx, s.db,
		"UPDATE brain_dump_entries SET text = ?, category = ?, tag_ids = ? WHERE id = ?",
		e.Text, nullString(string(e.Category)), tagIDs, e.ID)
	if err != nil {
		return models.BrainDumpEntry{}, fmt.Errorf("failed to update brain dump entry: %w", err)
	}
	if !ok {
		return models.BrainDumpEntry{}, apperrors.NotFoundf("brain dump entry %d", e.ID)
	}
	return s.GetBrainDumpEntry(ctx, e.ID)
}

// ArchiveBrainDumpEntry soft deletes the entry. Archiving twice keeps the
// first timestamp.
func (s *Store) ArchiveBrainDumpEntry(ctx context.Context, id int64, at time.Time) error {
	ok, err := s.execAffecting(ctx, s.db,
		"UPDATE brain_dump_entries SET archived_at = COALESCE(archived_at, ?) WHERE id = ?",
		formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to archive brain dump entry: %w", err)
	}
	if !ok {
		return apperrors.NotFoundf("brain dump entry %d", id)
	}
	return nil
}

func (s *Store) DeleteBrainDumpEntry(ctx context.Context, id int64) error {
	ok, err := s.execAffecting(ctx, s.db, "DELETE FROM brain_dump_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete brain dump entry: %w", err)
	}
	if !ok {
		return apperrors.NotFoundf("brain dump entry %d", id)
	}
	return nil
}

func hasAnyTag(tagIDs []int64, wanted map[int64]bool) bool {
	for _, id := range tagIDs {
		if wanted[id] {
			return true
		}
	}
	return false
}

func encodeTagIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode tag ids: %w", err)
	}
	return string(data), nil
}

func scanBrainDumpEntry(sc scanner) (models.BrainDumpEntry, error) {
	var e models.BrainDumpEntry
	var category, archivedAt sql.NullString
	var tagIDs, createdAt string
	if err := sc.Scan(&e.ID, &e.Text, &category, &tagIDs, &createdAt, &archivedAt); err != nil {
		return models.BrainDumpEntry{}, err
	}
	e.Category = constants.Category(category.String)
	e.TagIDs = []int64{}
	if tagIDs != "" {
		if err := json.Unmarshal([]byte(tagIDs), &e.TagIDs); err != nil {
			return models.BrainDumpEntry{}, fmt.Errorf("failed to decode tag_ids: %w", err)
		}
	}
	var err error
	if e.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
		return models.BrainDumpEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if e.ArchivedAt, err = parseNullTime(archivedAt); err != nil {
		return models.BrainDumpEntry{}, fmt.Errorf("failed to parse archived_at: %w", err)
	}
	return e, nil
}
