package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/session"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks never fail the run.
	warnOnly bool
	// needsStore checks are skipped when the store is unreachable.
	needsStore bool
	run        func(*Context) error
}

var checks = []check{
	{name: "Schema version", needsStore: true, run: checkSchemaVersion},
	{name: "Slot encoding", needsStore: true, run: checkSlots},
	{name: "Data validation", needsStore: true, run: checkValidation},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Concurrent session", warnOnly: true, run: checkSession},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false
	reachable := true
	if err := checkStoreReachable(ctx); err != nil {
		ctx.printf("❌ Storage reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		ctx.printf("✓ Storage reachable: OK\n")
	}

	for _, ch := range checks {
		if ch.needsStore && !reachable {
			ctx.printf("⊘ %s: SKIPPED (storage not reachable)\n", ch.name)
			continue
		}
		err := ch.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", ch.name)
		case ch.warnOnly:
			ctx.printf("⚠ %s: WARNING\n   %v\n", ch.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", ch.name, err)
			hasError = true
		}
	}

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		var one int
		if err := sqliteStore.GetDB().QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	runner, err := sqliteStore.Migrations()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending; run 'tally init' to apply them", pending)
	}
	return nil
}

func checkSlots(ctx *Context) error {
	corrupt, err := ctx.Storage().Check()
	if err != nil {
		return err
	}
	if len(corrupt) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d slot(s) unreadable, defaults are in use:", len(corrupt))
	for _, c := range corrupt {
		msg += "\n   - " + c.Error()
	}
	return errors.New(msg)
}

func checkValidation(ctx *Context) error {
	state, err := ctx.Storage().Snapshot()
	if err != nil {
		return err
	}
	result := validation.ValidateState(state)
	if result.HasConflicts() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if !storage.IsFileBacked(ctx.Store) {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tally backup create'")
	}
	return nil
}

func checkSession(ctx *Context) error {
	dir := ctx.ConfigDir()
	if dir == "" {
		return nil
	}
	holder, active, err := session.Active(dir)
	if err != nil {
		return fmt.Errorf("session lockfile unreadable: %w", err)
	}
	if active {
		return fmt.Errorf("a tally TUI is running (pid %d); avoid editing from two places at once", holder.PID)
	}
	return nil
}
