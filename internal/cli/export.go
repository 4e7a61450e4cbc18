package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/presenter"
)

// Export is the document written by 'tally export'.
type Export struct {
	ExportedAt string            `json:"exported_at" yaml:"exported_at"`
	Summary    presenter.Summary `json:"summary" yaml:"summary"`
	Meals      []models.Item     `json:"meals" yaml:"meals"`
	Workouts   []models.Item     `json:"workouts" yaml:"workouts"`
}

type ExportCmd struct {
	Format string `short:"F" enum:"json,yaml" default:"json" help:"Output format (json or yaml)."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	state, err := ctx.Storage().Snapshot()
	if err != nil {
		return err
	}
	doc := Export{
		ExportedAt: time.Now().Format(constants.TimestampFormat),
		Summary:    presenter.Present(state),
		Meals:      state.Meals,
		Workouts:   state.Workouts,
	}

	if c.Output == "" {
		if err := writeExport(ctx.out(), c.Format, doc); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	}

	f, err := createExportFile(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := writeExport(f, c.Format, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.printf("✓ Exported to %s\n", c.Output)
	return nil
}

var createExportFile = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
}

func writeExport(w io.Writer, format string, doc Export) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
