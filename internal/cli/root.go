package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/ids"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/presenter"
	"github.com/julianstephens/tally/internal/session"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tracker"
)

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(title, description string) (bool, error)

type Context struct {
	Store   storage.Provider
	IDs     ids.Generator
	Confirm ConfirmFunc
	Out     io.Writer
	Err     io.Writer
}

// NewContext wires a context with the interactive defaults.
func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:   store,
		IDs:     ids.Default,
		Confirm: huhConfirm,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) errOut() io.Writer {
	if c.Err == nil {
		return os.Stderr
	}
	return c.Err
}

func (c *Context) idGenerator() ids.Generator {
	if c.IDs == nil {
		return ids.Default
	}
	return c.IDs
}

func (c *Context) confirm(title, description string) (bool, error) {
	if c.Confirm == nil {
		return huhConfirm(title, description)
	}
	return c.Confirm(title, description)
}

// Storage returns the typed view of the configured provider.
func (c *Context) Storage() *storage.Storage {
	return storage.New(c.Store)
}

// Tracker builds a tracker over the store. The CLI prints a summary itself
// once a command finishes, so the sink discards intermediate renders.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	return tracker.New(c.Storage(), tracker.NopSink{})
}

// ConfigDir is where logs, backups and the session lockfile live. It is empty
// for the in-memory store.
func (c *Context) ConfigDir() string {
	if !storage.IsFileBacked(c.Store) {
		return ""
	}
	return filepath.Dir(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates a backup and only logs on failure.
func (c *Context) PerformAutomaticBackup() {
	if !storage.IsFileBacked(c.Store) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// WarnIfSessionActive prints a warning when a TUI session holds the store.
func (c *Context) WarnIfSessionActive() {
	dir := c.ConfigDir()
	if dir == "" {
		return
	}
	holder, active, err := session.Active(dir)
	if err != nil {
		logger.Debug("Could not inspect session lockfile", "error", err)
		return
	}
	if active {
		fmt.Fprintf(c.errOut(), "Warning: a tally TUI is running (pid %d); its view will reload but concurrent edits are not coordinated.\n", holder.PID)
	}
}

func (c *Context) printSummary(s presenter.Summary) {
	c.printf("Limit:      %6d\n", s.Limit)
	c.printf("Consumed:   %6d\n", s.Consumed)
	c.printf("Burned:     %6d\n", s.Burned)
	c.printf("Total:      %6d\n", s.Total)
	c.printf("Remaining:  %6d\n", s.Remaining)
	c.printf("Progress:   %5.0f%%\n", s.Progress)
	if s.OverLimit {
		c.printf("You are at or over your daily limit.\n")
	}
}
