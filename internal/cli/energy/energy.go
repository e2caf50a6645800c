package energy

import (
	"context"
	"fmt"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/models"
)

// EnergyCmd logs a reading, or shows the current level and patterns when no
// level is given
type EnergyCmd struct {
	Level string `arg:"" optional:"" help:"Energy level: low, medium or high."`
	Note  string `short:"n" help:"Optional note for the reading."`
	Days  int    `help:"Days of history for pattern insights." default:"0"`
}

func (c *EnergyCmd) Run(ctx *cli.Context) error {
	svc := ctx.Service()
	bg := context.Background()

	if c.Level != "" {
		entry, err := svc.LogEnergy(bg, models.LogEnergyRequest{Level: c.Level, Note: c.Note})
		if err != nil {
			return err
		}
		ctx.Printf("%s Logged %s energy at %s\n",
			cli.OKStyle.Render("✓"),
			cli.EnergyStyle(string(entry.Level)).Render(string(entry.Level)),
			entry.LoggedAt.In(ctx.Clock.Location()).Format(constants.TimeFormat),
		)
		return nil
	}

	state, err := svc.CurrentEnergy(bg)
	if err != nil {
		return err
	}
	ctx.Printf("Current energy: %s\n", cli.EnergyStyle(string(state.Level)).Render(string(state.Level)))

	insights, err := svc.EnergyInsights(bg, c.Days)
	if err != nil {
		return err
	}
	if len(insights.Patterns) == 0 {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("No readings in the last %d days.", insights.Days)))
		return nil
	}
	if insights.Peak != nil {
		ctx.Printf("Peak energy: %s\n", describe(*insights.Peak))
	}
	if insights.Rest != nil {
		ctx.Printf("Rest time:   %s\n", describe(*insights.Rest))
	}
	return nil
}

var weekdays = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func describe(p models.EnergyPattern) string {
	return fmt.Sprintf("%s %02d:00 (%d readings)", weekdays[p.DayOfWeek], p.Hour, p.Count)
}
