package storage

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by Load when the backing store does not exist yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'tally init' first")

// CorruptError reports persisted text that cannot be decoded. Slot is empty
// when the whole backing file is unreadable.
type CorruptError struct {
	Slot  string
	Value string
	Err   error
}

func (e *CorruptError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("storage is corrupt: %v", e.Err)
	}
	return fmt.Sprintf("slot %s is corrupt: %v", e.Slot, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
