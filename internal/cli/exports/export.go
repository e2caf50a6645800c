package exports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/sanctuary/internal/cli"
	"github.com/julianstephens/sanctuary/internal/export"
)

// ExportCmd writes every table to a JSON document or an XLSX workbook
type ExportCmd struct {
	Format string `short:"f" default:"json" help:"Output format: json or xlsx."`
	Output string `short:"o" help:"Output file, '-' for stdout. Defaults to a dated file in the current directory."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	data, err := ctx.Service().Export(context.Background())
	if err != nil {
		return err
	}

	if c.Output == "-" {
		return export.Write(ctx.Writer(), data, format)
	}

	path := c.Output
	if path == "" {
		path = export.Filename(data, format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, data, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	ctx.Printf("%s Exported %d energy logs, %d anchors, %d projects and %d thoughts to %s\n",
		cli.OKStyle.Render("✓"),
		len(data.EnergyLogs), len(data.Anchors), len(data.Projects), len(data.BrainDump), path)
	return nil
}
