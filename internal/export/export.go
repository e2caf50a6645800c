// Package export renders a models.Export as JSON or as an Excel workbook
// with one sheet per table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/utils"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "json" (also the empty string) and "xlsx"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want json or xlsx)", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Filename suggests a file name such as sanctuary-export-2026-03-11.xlsx
func Filename(data models.Export, f Format) string {
	return fmt.Sprintf("%s-export-%s.%s", constants.AppName, data.ExportedAt.Format(constants.DateFormat), f)
}

// Write renders data to w in format f
func Write(w io.Writer, data models.Export, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatXLSX:
		return writeXLSX(w, data)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return utils.FormatTimestamp(t)
}

func optTS(t *time.Time) string {
	if t == nil {
		return ""
	}
	return ts(*t)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func sheets(data models.Export) []sheet {
	overview := sheet{name: "Overview", header: []string{"key", "value"}, rows: [][]interface{}{
		{"export_id", data.ID},
		{"exported_at", ts(data.ExportedAt)},
		{"version", data.Version},
		{"current_streak", data.Streak.CurrentStreak},
		{"longest_streak", data.Streak.LongestStreak},
		{"last_active_date", data.Streak.LastActiveDate},
		{"weekly_target", data.Settings.WeeklyTarget},
		{"current_energy_level", string(data.Settings.CurrentEnergyLevel)},
	}}

	energy := sheet{name: "Energy Logs", header: []string{"id", "level", "note", "logged_at"}}
	for _, l := range data.EnergyLogs {
		energy.rows = append(energy.rows, []interface{}{l.ID, string(l.Level), l.Note, ts(l.LoggedAt)})
	}

	anchors := sheet{name: "Anchors", header: []string{"id", "label", "icon", "sort_order", "created_at"}}
	for _, a := range data.Anchors {
		anchors.rows = append(anchors.rows, []interface{}{a.ID, a.Label, a.Icon, a.SortOrder, ts(a.CreatedAt)})
	}

	completions := sheet{name: "Anchor Completions", header: []string{"id", "anchor_id", "completed_date", "completed_at"}}
	for _, c := range data.AnchorCompletions {
		completions.rows = append(completions.rows, []interface{}{c.ID, c.AnchorID, c.CompletedDate, ts(c.CompletedAt)})
	}

	templates := sheet{name: "Templates", header: []string{"id", "name", "description", "is_default", "created_at"}}
	for _, t := range data.Templates {
		templates.rows = append(templates.rows, []interface{}{t.ID, t.Name, t.Description, t.IsDefault, ts(t.CreatedAt)})
	}

	tsteps := sheet{name: "Template Steps", header: []string{"id", "template_id", "title", "description", "effort", "sort_order"}}
	for _, s := range data.TemplateSteps {
		tsteps.rows = append(tsteps.rows, []interface{}{s.ID, s.TemplateID, s.Title, s.Description, string(s.Effort), s.SortOrder})
	}

	projects := sheet{name: "Projects", header: []string{"id", "template_id", "name", "description", "is_active", "created_at", "completed_at"}}
	for _, p := range data.Projects {
		var tmpl interface{}
		if p.TemplateID != nil {
			tmpl = *p.TemplateID
		}
		projects.rows = append(projects.rows, []interface{}{p.ID, tmpl, p.Name, p.Description, p.IsActive, ts(p.CreatedAt), optTS(p.CompletedAt)})
	}

	psteps := sheet{name: "Project Steps", header: []string{"id", "project_id", "title", "description", "effort", "completed", "completed_at", "sort_order"}}
	for _, s := range data.ProjectSteps {
		psteps.rows = append(psteps.rows, []interface{}{s.ID, s.ProjectID, s.Title, s.Description, string(s.Effort), s.Completed, optTS(s.CompletedAt), s.SortOrder})
	}

	tags := sheet{name: "Tags", header: []string{"id", "name", "color", "created_at"}}
	for _, t := range data.Tags {
		tags.rows = append(tags.rows, []interface{}{t.ID, t.Name, t.Color, ts(t.CreatedAt)})
	}

	dump := sheet{name: "Brain Dump", header: []string{"id", "text", "category", "tag_ids", "created_at", "archived_at"}}
	for _, e := range data.BrainDump {
		dump.rows = append(dump.rows, []interface{}{e.ID, e.Text, string(e.Category), joinIDs(e.TagIDs), ts(e.CreatedAt), optTS(e.ArchivedAt)})
	}

	summaries := sheet{name: "Daily Summaries", header: []string{"date", "dominant_energy", "anchors_completed", "tasks_completed", "thoughts_captured", "reflection_note"}}
	for _, s := range data.DailySummaries {
		summaries.rows = append(summaries.rows, []interface{}{s.Date, string(s.DominantEnergy), s.AnchorsDone, s.TasksDone, s.ThoughtsCaught, s.ReflectionNote})
	}

	return []sheet{overview, energy, anchors, completions, templates, tsteps, projects, psteps, tags, dump, summaries}
}

func writeXLSX(w io.Writer, data models.Export) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets(data) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sh.name, err)
		}

		header := make([]interface{}, len(sh.header))
		for j, h := range sh.header {
			header[j] = h
		}
		if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return err
		}
		if err := f.SetRowStyle(sh.name, 1, 1, bold); err != nil {
			return err
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sh.name, r+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
