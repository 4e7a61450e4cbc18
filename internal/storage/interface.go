package storage

import (
	"fmt"
	"slices"

	"github.com/julianstephens/tally/internal/constants"
)

// Provider is durable key-value storage over named slots. Values are text;
// each slot is read and written on its own, with no transaction spanning
// several slots.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	Get(slot string) (value string, ok bool, err error)
	Set(slot, value string) error
	Remove(slot string) error

	// Utils
	GetConfigPath() string
}

func checkSlot(slot string) error {
	if !slices.Contains(constants.Slots, slot) {
		return fmt.Errorf("unknown slot: %q", slot)
	}
	return nil
}
