package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/models"
)

// StatusCmd renders the dashboard: energy, anchors, momentum, the active
// project and open thoughts
type StatusCmd struct {
	Thoughts int `help:"Number of open thoughts to show." default:"5"`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Service().Dashboard(context.Background())
	if err != nil {
		return err
	}
	ctx.Println(renderDashboard(d, c.Thoughts))
	return nil
}

func renderDashboard(d models.Dashboard, maxThoughts int) string {
	var sections []string

	m := d.Momentum
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left,
		cli.TitleStyle.Render("Sanctuary"),
		fmt.Sprintf("Energy    %s", cli.EnergyStyle(string(d.Energy)).Render(string(d.Energy))),
		fmt.Sprintf("Today     %d done", m.CompletedToday),
		fmt.Sprintf("Week      %d / %d", m.WeeklyCompletion, m.WeeklyTarget),
		fmt.Sprintf("Streak    %d day(s)", m.Streak),
	))

	if len(d.Anchors) > 0 {
		lines := []string{cli.TitleStyle.Render("Anchors")}
		for _, a := range d.Anchors {
			mark := cli.MutedStyle.Render("○")
			if a.Active {
				mark = cli.OKStyle.Render("●")
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, a.Label))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if p := d.ActiveProject; p != nil {
		done := 0
		for _, s := range p.Steps {
			if s.Completed {
				done++
			}
		}
		lines := []string{cli.TitleStyle.Render(p.Name), cli.MutedStyle.Render(fmt.Sprintf("%d of %d steps", done, len(p.Steps)))}
		for _, s := range p.Steps {
			if !s.Completed {
				lines = append(lines, fmt.Sprintf("next: %s (%s)", s.Title, s.Effort))
				break
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(d.BrainDump) > 0 {
		lines := []string{cli.TitleStyle.Render("Open thoughts")}
		for i, e := range d.BrainDump {
			if i == maxThoughts {
				lines = append(lines, cli.MutedStyle.Render(fmt.Sprintf("…and %d more", len(d.BrainDump)-maxThoughts)))
				break
			}
			lines = append(lines, fmt.Sprintf("[%s] %s", e.Category, e.Text))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return cli.BoxStyle.Render(strings.Join(sections, "\n\n"))
}
