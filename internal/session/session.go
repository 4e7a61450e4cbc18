// Package session marks the store as in use by an interactive tally process.
//
// The lockfile holds "pid|started", where started is an RFC 3339 timestamp.
// It is advisory: other commands only warn when a live holder exists.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Holder is the process named in a lockfile.
type Holder struct {
	PID     int
	Started time.Time
}

// HeldError is returned by Acquire when another live tally owns the session.
type HeldError struct {
	Holder Holder
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("another tally session is running (pid %d, since %s)",
		e.Holder.PID, e.Holder.Started.Format(time.Kitchen))
}

// Lock is an acquired session.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location for a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.SessionLockfileName)
}

// Acquire claims the session in configDir. A lockfile left by a process that
// is no longer running is replaced.
func Acquire(configDir string) (*Lock, error) {
	path := Path(configDir)
	holder, live, err := inspect(path)
	if err != nil {
		logger.Warn("Ignoring unreadable session lockfile", "path", path, "error", err)
	}
	if live && holder.PID != getpidFunc() {
		return nil, &HeldError{Holder: holder}
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	pid := getpidFunc()
	content := fmt.Sprintf("%d|%s", pid, time.Now().Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write session lockfile: %w", err)
	}
	logger.Debug("Session acquired", "path", path, "pid", pid)
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if it still names this process.
func (l *Lock) Release() error {
	holder, err := readLockfile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session lockfile: %w", err)
	}
	return nil
}

// Active reports the live session holder in configDir, if any. The calling
// process never counts as a holder.
func Active(configDir string) (Holder, bool, error) {
	holder, live, err := inspect(Path(configDir))
	if err != nil || !live || holder.PID == getpidFunc() {
		return Holder{}, false, err
	}
	return holder, true, nil
}

func inspect(path string) (Holder, bool, error) {
	holder, err := readLockfile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Holder{}, false, nil
	}
	if err != nil {
		return Holder{}, false, err
	}
	return holder, alive(holder.PID), nil
}

func readLockfile(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	started, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return Holder{}, errors.New("invalid start time in lockfile")
	}
	return Holder{PID: pid, Started: started}, nil
}

// alive checks that pid exists and is a tally binary, so a recycled PID does
// not keep a stale lock alive.
func alive(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
