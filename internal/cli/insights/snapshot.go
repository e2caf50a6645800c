package insights

import (
	"context"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/models"
)

// SnapshotCmd saves the daily summary for a date, optionally with a reflection
type SnapshotCmd struct {
	Date string `help:"Date to summarize (YYYY-MM-DD), defaults to today."`
	Note string `help:"Reflection note to store with the summary."`
}

func (c *SnapshotCmd) Run(ctx *cli.Context) error {
	svc := ctx.Service()
	bg := context.Background()

	sum, err := svc.Snapshot(bg, c.Date)
	if err != nil {
		return err
	}
	if c.Note != "" {
		if sum, err = svc.SetReflectionNote(bg, sum.Date, models.ReflectionNoteRequest{Note: c.Note}); err != nil {
			return err
		}
	}

	ctx.Printf("%s %s\n", cli.TitleStyle.Render("Summary for"), sum.Date)
	if sum.DominantEnergy != "" {
		ctx.Printf("  Energy:   %s\n", cli.EnergyStyle(string(sum.DominantEnergy)).Render(string(sum.DominantEnergy)))
	}
	ctx.Printf("  Anchors:  %d\n", sum.AnchorsDone)
	ctx.Printf("  Tasks:    %d\n", sum.TasksDone)
	ctx.Printf("  Thoughts: %d\n", sum.ThoughtsCaught)
	if sum.ReflectionNote != "" {
		ctx.Printf("  Note:     %s\n", sum.ReflectionNote)
	}
	return nil
}
