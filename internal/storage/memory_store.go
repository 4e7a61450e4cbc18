package storage

import (
	"fmt"
	"maps"
	"sync"

	"github.com/julianstephens/tally/internal/constants"
)

// MemoryStore keeps slots in a map. It backs the ":memory:" config and the
// tests, and can be told to fail writes to exercise error paths.
type MemoryStore struct {
	mu        sync.Mutex
	slots     map[string]string
	failSlots map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots:     make(map[string]string),
		failSlots: make(map[string]error),
	}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(slot string) (string, bool, error) {
	if err := checkSlot(slot); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[slot]
	return v, ok, nil
}

func (s *MemoryStore) Set(slot, value string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failSlots[slot]; err != nil {
		return fmt.Errorf("failed to write %s: %w", slot, err)
	}
	s.slots[slot] = value
	return nil
}

func (s *MemoryStore) Remove(slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failSlots[slot]; err != nil {
		return fmt.Errorf("failed to remove %s: %w", slot, err)
	}
	delete(s.slots, slot)
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return constants.MemoryConfigPath
}

// FailWrites makes every later Set/Remove of slot return err. A nil err
// clears the failure.
func (s *MemoryStore) FailWrites(slot string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failSlots, slot)
		return
	}
	s.failSlots[slot] = err
}

// Dump returns a copy of the raw slot text.
func (s *MemoryStore) Dump() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.slots)
}
