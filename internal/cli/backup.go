package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/storage"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" default:"1" help:"Create a manual backup."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func backupManager(ctx *Context) (*backup.Manager, error) {
	if !storage.IsFileBacked(ctx.Store) {
		return nil, errors.New("backups need a file-backed store")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.printf("No backups found.\nBackups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.BackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path, err := resolveBackup(mgr, c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed, err := ctx.confirm(
			"Replace the current store with this backup?",
			fmt.Sprintf("Restoring from %s. Close any running tally TUI first. A copy of the current store is kept.", path),
		)
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.printf("Restore cancelled.\n")
			return nil
		}
	}
	ctx.WarnIfSessionActive()

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(ctx.errOut(), "Warning: failed to close store: %v\n", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if previous != "" {
		ctx.printf("Created backup of current store: %s\n", filepath.Base(previous))
	}
	ctx.printf("✓ Store restored from %s\n", filepath.Base(path))
	return nil
}

// resolveBackup accepts an absolute path, a path relative to the working
// directory, or a bare filename inside the backup directory.
func resolveBackup(mgr *backup.Manager, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	candidate := filepath.Join(mgr.BackupDir(), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.BackupDir())
}
