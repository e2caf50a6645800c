package braindump

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/insights"
	"github.com/julianstephens/sanctuary/internal/models"
	"github.com/julianstephens/sanctuary/internal/service"
)

// DumpCmd captures a thought. Without --category it is categorized from the text.
type DumpCmd struct {
	Text     []string `arg:"" help:"The thought to capture."`
	Category string   `short:"c" help:"Category: task, idea, note or reminder."`
	Tag      []string `short:"t" help:"Tag names to attach; repeat or comma separate."`
}

func (c *DumpCmd) Run(ctx *cli.Context) error {
	svc := ctx.Service()
	bg := context.Background()

	tagIDs, err := resolveTags(bg, svc, c.Tag)
	if err != nil {
		return err
	}

	entry, err := svc.AddBrainDump(bg, models.BrainDumpRequest{
		Text:     strings.Join(c.Text, " "),
		Category: c.Category,
		TagIDs:   tagIDs,
	})
	if err != nil {
		return err
	}
	ctx.Printf("%s Captured #%d as %s\n", cli.OKStyle.Render("✓"), entry.ID, entry.Category)
	return nil
}

func resolveTags(ctx context.Context, svc *service.Service, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags, err := svc.Tags(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(tags))
	for _, t := range tags {
		byName[strings.ToLower(t.Name)] = t.ID
	}

	var ids []int64
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			id, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown tag %q", name)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CategorizeCmd prints the category a thought would be filed under
type CategorizeCmd struct {
	Text []string `arg:"" help:"Text to categorize."`
}

func (c *CategorizeCmd) Run(ctx *cli.Context) error {
	ctx.Println(insights.Categorize(strings.Join(c.Text, " ")))
	return nil
}
