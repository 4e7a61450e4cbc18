// Package backup keeps timestamped copies of the store file next to it.
package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
)

const (
	minuteFormat = "20060102-1504"
	secondFormat = "20060102-150405"
)

// Format is the on-disk layout of the store being backed up.
type Format int

const (
	FormatSQLite Format = iota
	FormatJSON
)

// FormatFor picks the format from the store path's extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatSQLite
}

func (f Format) suffix() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".db"
}

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	storePath string
	backupDir string
	format    Format
	now       func() time.Time
}

func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		format:    FormatFor(storePath),
		now:       time.Now,
	}
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Create copies the store into the backup directory and prunes the oldest
// copies beyond constants.MaxBackups.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.storePath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("store does not exist: %s", m.storePath)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}

	switch m.format {
	case FormatJSON:
		err = copyFile(m.storePath, dest)
	default:
		err = vacuumInto(m.storePath, dest)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up store: %w", err)
	}
	return dest, nil
}

// nextPath names the backup by minute, falling back to seconds and then a
// counter when several are taken within the same minute.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidates := []string{now.Format(minuteFormat), now.Format(secondFormat)}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", now.Format(secondFormat), i))
	}

	for _, stamp := range candidates {
		path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+m.format.suffix())
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// List returns backups newest first. Files that do not follow the naming
// scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name(), m.format.suffix())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	slices.SortStableFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

func parseName(name, suffix string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, constants.BackupFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, suffix)
	if !ok {
		return time.Time{}, false
	}

	// Drop a trailing collision counter: date-time-N.
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{minuteFormat, secondFormat} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) <= constants.MaxBackups {
		return nil
	}
	for _, old := range backups[constants.MaxBackups:] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old.Path, err)
		}
	}
	return nil
}

// Restore replaces the store with backupPath. The current store, if any, is
// backed up first without rotation so the restore can be undone. It returns
// the path of that pre-restore copy.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.Verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.storePath); err == nil {
		if previous, err = m.create(); err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
	}

	tmp := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.storePath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore store: %w", err)
	}

	logger.Info("Backup restored", "from", backupPath, "previous", previous)
	return previous, nil
}

// Verify checks that path can be read as a store of the manager's format.
func (m *Manager) Verify(path string) error {
	if m.format == FormatJSON {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var doc struct {
			Slots map[string]string `json:"slots"`
		}
		return json.Unmarshal(raw, &doc)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(src, dest)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
