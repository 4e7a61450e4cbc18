package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store path: a .db file (SQLite), a .json file, or :memory:." env:"TALLY_CONFIG" default:"${config}"`
	Debug   bool   `help:"Log debug output to stderr." env:"TALLY_DEBUG"`

	Init      cli.InitCmd      `cmd:"" help:"Initialize tally storage."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status    cli.StatusCmd    `cmd:"" help:"Show today's totals."`
	Meal      cli.MealCmd      `cmd:"" help:"Manage meals."`
	Workout   cli.WorkoutCmd   `cmd:"" help:"Manage workouts."`
	Limit     cli.LimitCmd     `cmd:"" help:"Manage the daily calorie limit."`
	Reset     cli.ResetCmd     `cmd:"" help:"Clear today's meals and workouts."`
	Reconcile cli.ReconcileCmd `cmd:"" help:"Recompute the total from meals and workouts."`
	Export    cli.ExportCmd    `cmd:"" help:"Export today's data as JSON or YAML."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Backup    cli.BackupCmd    `cmd:"" help:"Manage store backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Calorie tracker: meals add, workouts subtract, stay under your limit."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	configPath, err := expandHome(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	store := storage.NewProvider(configPath)
	if storage.IsFileBacked(store) {
		if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(configPath)}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
		}
	} else if CLI.Debug {
		logger.Logger = logger.New(os.Stderr, log.DebugLevel, true)
	}

	// The in-memory store starts empty on every run, so it is always initialized.
	if !storage.IsFileBacked(store) {
		if err := store.Init(); err != nil {
			errors.Fatal(err)
		}
	} else if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(cli.NewContext(store)); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
