// Package ids generates identifiers for meals and workouts.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator hands out identifiers that are unique for the life of a store.
type Generator interface {
	NewID() string
}

// UUID generates random (v4) UUIDs.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.New().String()
}

// Sequence generates prefix-1, prefix-2, ... and never repeats within a process.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

// NewSequence returns a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}

// Default is the generator used by the CLI and TUI.
var Default Generator = UUID{}
