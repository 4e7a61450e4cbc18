package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/julianstephens/tally/internal/logger"
)

const (
	jsonStoreVersion = 1
	lockTimeout      = 3 * time.Second
	lockRetry        = 50 * time.Millisecond
)

// jsonFile is the on-disk layout of a JSONStore.
type jsonFile struct {
	Version int               `json:"version"`
	Slots   map[string]string `json:"slots"`
}

// JSONStore keeps all slots in one JSON file. Every call re-reads the file so
// that several processes see each other's writes; a sidecar flock serialises
// them.
type JSONStore struct {
	path     string
	fileLock *flock.Flock
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return s.withLock(true, func() error {
		if _, err := os.Stat(s.path); err == nil {
			return nil
		}
		return s.writeFile(&jsonFile{Version: jsonStoreVersion, Slots: map[string]string{}})
	})
}

func (s *JSONStore) Load() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to access storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(slot string) (string, bool, error) {
	if err := checkSlot(slot); err != nil {
		return "", false, err
	}

	var (
		value string
		ok    bool
	)
	err := s.withLock(false, func() error {
		data, err := s.readFile()
		if err != nil {
			return err
		}
		value, ok = data.Slots[slot]
		return nil
	})
	return value, ok, err
}

func (s *JSONStore) Set(slot, value string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	return s.update(func(slots map[string]string) {
		slots[slot] = value
	})
}

func (s *JSONStore) Remove(slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	return s.update(func(slots map[string]string) {
		delete(slots, slot)
	})
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// update performs a read-modify-write of the whole file under the exclusive
// lock. A corrupt file is replaced rather than blocking every later write.
func (s *JSONStore) update(fn func(map[string]string)) error {
	return s.withLock(true, func() error {
		data, err := s.readFile()
		if err != nil {
			var corrupt *CorruptError
			if !errors.As(err, &corrupt) {
				return err
			}
			logger.Warn("Rewriting corrupt storage file", "path", s.path, "error", err)
			data = &jsonFile{Version: jsonStoreVersion, Slots: map[string]string{}}
		}
		fn(data.Slots)
		return s.writeFile(data)
	})
}

func (s *JSONStore) withLock(exclusive bool, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.fileLock.TryLockContext(ctx, lockRetry)
	} else {
		locked, err = s.fileLock.TryRLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock on %s", s.path)
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// readFile must be called with the lock held. A missing file reads as empty.
func (s *JSONStore) readFile() (*jsonFile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &jsonFile{Version: jsonStoreVersion, Slots: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	data := &jsonFile{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, data); err != nil {
			return nil, &CorruptError{Err: fmt.Errorf("failed to parse %s: %w", s.path, err)}
		}
	}
	if data.Slots == nil {
		data.Slots = map[string]string{}
	}
	if data.Version > jsonStoreVersion {
		return nil, fmt.Errorf("storage file version (%d) is newer than supported version (%d) - please upgrade tally",
			data.Version, jsonStoreVersion)
	}
	data.Version = jsonStoreVersion
	return data, nil
}

// writeFile must be called with the exclusive lock held. It writes a temp
// file and renames it over the original.
func (s *JSONStore) writeFile(data *jsonFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
