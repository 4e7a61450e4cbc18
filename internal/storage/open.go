package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/tally/internal/constants"
)

// NewProvider picks a backend from the config path: ":memory:" for an
// in-process store, a .json file for JSONStore, anything else for SQLite.
func NewProvider(path string) Provider {
	switch {
	case path == constants.MemoryConfigPath:
		return NewMemoryStore()
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return NewJSONStore(path)
	default:
		return NewSQLiteStore(path)
	}
}

// IsFileBacked reports whether the provider persists to a file on disk.
func IsFileBacked(p Provider) bool {
	switch p.(type) {
	case *JSONStore, *SQLiteStore:
		return true
	}
	return false
}
