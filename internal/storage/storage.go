package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// Storage gives typed access to a Provider's slots. Missing slots read as
// their defaults; so do corrupt ones, after a warning is logged. Only I/O
// failures of the provider itself are returned as errors.
type Storage struct {
	provider Provider
}

func New(provider Provider) *Storage {
	return &Storage{provider: provider}
}

// Provider returns the wrapped raw store.
func (s *Storage) Provider() Provider {
	return s.provider
}

func (s *Storage) CalorieLimit() (int, error) {
	return readSlot(s, constants.SlotCalorieLimit, constants.DefaultCalorieLimit, decodeLimit)
}

func (s *Storage) SetCalorieLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("refusing to store non-positive limit %d", limit)
	}
	return s.provider.Set(constants.SlotCalorieLimit, strconv.Itoa(limit))
}

// ResetCalorieLimit removes the stored limit so the default applies again.
func (s *Storage) ResetCalorieLimit() error {
	return s.provider.Remove(constants.SlotCalorieLimit)
}

func (s *Storage) TotalCalories() (int, error) {
	return readSlot(s, constants.SlotTotalCalories, constants.DefaultTotalCalories, decodeTotal)
}

func (s *Storage) SetTotalCalories(total int) error {
	return s.provider.Set(constants.SlotTotalCalories, strconv.Itoa(total))
}

func (s *Storage) Items(kind models.Kind) ([]models.Item, error) {
	return readSlot(s, itemSlot(kind), []models.Item{}, decodeItems)
}

func (s *Storage) SetItems(kind models.Kind, items []models.Item) error {
	text, err := encodeItems(items)
	if err != nil {
		return err
	}
	return s.provider.Set(itemSlot(kind), text)
}

// AppendItem adds item to the end of its list.
func (s *Storage) AppendItem(kind models.Kind, item models.Item) error {
	items, err := s.Items(kind)
	if err != nil {
		return err
	}
	return s.SetItems(kind, append(items, item))
}

// RemoveItem deletes the first item with the given id. The list is not
// rewritten when the id is absent.
func (s *Storage) RemoveItem(kind models.Kind, id string) (models.Item, bool, error) {
	items, err := s.Items(kind)
	if err != nil {
		return models.Item{}, false, err
	}

	for i, item := range items {
		if item.ID != id {
			continue
		}
		rest := append(items[:i:i], items[i+1:]...)
		if err := s.SetItems(kind, rest); err != nil {
			return models.Item{}, false, err
		}
		return item, true, nil
	}
	return models.Item{}, false, nil
}

// ResetDay zeroes the total and empties both lists. The limit is kept.
func (s *Storage) ResetDay() error {
	if err := s.SetTotalCalories(0); err != nil {
		return err
	}
	if err := s.SetItems(models.KindMeal, nil); err != nil {
		return err
	}
	return s.SetItems(models.KindWorkout, nil)
}

// Snapshot reads all four slots.
func (s *Storage) Snapshot() (models.State, error) {
	var (
		state models.State
		err   error
	)
	if state.CalorieLimit, err = s.CalorieLimit(); err != nil {
		return models.State{}, err
	}
	if state.TotalCalories, err = s.TotalCalories(); err != nil {
		return models.State{}, err
	}
	if state.Meals, err = s.Items(models.KindMeal); err != nil {
		return models.State{}, err
	}
	if state.Workouts, err = s.Items(models.KindWorkout); err != nil {
		return models.State{}, err
	}
	return state, nil
}

// Check decodes every slot and reports the ones that would fall back to
// their defaults. A corrupt backing file is reported once with an empty Slot.
func (s *Storage) Check() ([]*CorruptError, error) {
	var found []*CorruptError
	for _, slot := range constants.Slots {
		text, ok, err := s.provider.Get(slot)
		if err != nil {
			var corrupt *CorruptError
			if errors.As(err, &corrupt) {
				return []*CorruptError{corrupt}, nil
			}
			return nil, err
		}
		if !ok {
			continue
		}
		if err := decodeSlot(slot, text); err != nil {
			found = append(found, &CorruptError{Slot: slot, Value: text, Err: err})
		}
	}
	return found, nil
}

func readSlot[T any](s *Storage, slot string, def T, decode func(string) (T, error)) (T, error) {
	text, ok, err := s.provider.Get(slot)
	if err != nil {
		var corrupt *CorruptError
		if errors.As(err, &corrupt) {
			logger.Warn("Storage unreadable, using default", "slot", slot, "error", err)
			return def, nil
		}
		return def, err
	}
	if !ok {
		return def, nil
	}

	v, err := decode(text)
	if err != nil {
		logger.Warn("Slot is corrupt, using default", "slot", slot, "value", truncate(text, 64), "error", err)
		return def, nil
	}
	return v, nil
}

func decodeSlot(slot, text string) error {
	var err error
	switch slot {
	case constants.SlotCalorieLimit:
		_, err = decodeLimit(text)
	case constants.SlotTotalCalories:
		_, err = decodeTotal(text)
	case constants.SlotMeals, constants.SlotWorkouts:
		_, err = decodeItems(text)
	}
	return err
}

func decodeLimit(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("limit is not an integer: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("limit %d is not positive", n)
	}
	return n, nil
}

func decodeTotal(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("total is not an integer: %w", err)
	}
	return n, nil
}

func decodeItems(text string) ([]models.Item, error) {
	var items []models.Item
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("item list is not valid JSON: %w", err)
	}
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %d has no id", i)
		}
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func encodeItems(items []models.Item) (string, error) {
	if items == nil {
		items = []models.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to serialize items: %w", err)
	}
	return string(raw), nil
}

func itemSlot(kind models.Kind) string {
	if kind == models.KindWorkout {
		return constants.SlotWorkouts
	}
	return constants.SlotMeals
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
