// Package tracker keeps the day's calorie state in step with storage.
//
// Every operation writes through to storage, reloads the in-memory mirror
// from storage, and signals the sink. The running total is stored and
// adjusted incrementally rather than recomputed from the lists; Verify and
// Reconcile exist for the case where the two diverge after a partial write.
package tracker

import (
	"fmt"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/presenter"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/validation"
)

// DriftError reports a stored total that no longer matches the lists.
type DriftError struct {
	Stored  int
	Derived int
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("stored total %d does not match meals minus workouts (%d)", e.Stored, e.Derived)
}

// Tracker is not safe for concurrent use; callers drive it from one goroutine.
type Tracker struct {
	store *storage.Storage
	sink  Sink
	state models.State
}

// New loads the persisted state, announces every stored item to the sink and
// renders once.
func New(store *storage.Storage, sink Sink) (*Tracker, error) {
	if sink == nil {
		sink = NopSink{}
	}
	t := &Tracker{store: store, sink: sink}
	if err := t.refresh(); err != nil {
		return nil, err
	}

	for _, kind := range models.Kinds {
		for _, item := range t.state.Items(kind) {
			t.sink.AppendItem(presenter.NewItemEvent(item, kind))
		}
	}
	t.render()
	return t, nil
}

func (t *Tracker) AddMeal(item models.Item) error {
	return t.add(models.KindMeal, item)
}

func (t *Tracker) RemoveMeal(id string) (bool, error) {
	return t.remove(models.KindMeal, id)
}

func (t *Tracker) AddWorkout(item models.Item) error {
	return t.add(models.KindWorkout, item)
}

func (t *Tracker) RemoveWorkout(id string) (bool, error) {
	return t.remove(models.KindWorkout, id)
}

// Add dispatches on kind.
func (t *Tracker) Add(kind models.Kind, item models.Item) error {
	return t.add(kind, item)
}

// Remove dispatches on kind.
func (t *Tracker) Remove(kind models.Kind, id string) (bool, error) {
	return t.remove(kind, id)
}

func (t *Tracker) add(kind models.Kind, item models.Item) error {
	if err := t.store.AppendItem(kind, item); err != nil {
		return fmt.Errorf("failed to add %s: %w", kind, err)
	}

	total, err := t.store.TotalCalories()
	if err != nil {
		return t.resync(fmt.Errorf("failed to read total: %w", err))
	}
	if err := t.store.SetTotalCalories(total + kind.Sign()*item.Calories); err != nil {
		return t.resync(fmt.Errorf("failed to update total: %w", err))
	}

	if err := t.refresh(); err != nil {
		return err
	}
	logger.Debug("Added item", "kind", kind, "id", item.ID, "calories", item.Calories, "total", t.state.TotalCalories)

	t.sink.AppendItem(presenter.NewItemEvent(item, kind))
	t.render()
	return nil
}

// remove deletes id from its list and backs its calories out of the total.
// An unknown id changes nothing but the sink is still refreshed.
func (t *Tracker) remove(kind models.Kind, id string) (bool, error) {
	item, found, err := t.store.RemoveItem(kind, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", kind, err)
	}

	if found {
		total, err := t.store.TotalCalories()
		if err != nil {
			return false, t.resync(fmt.Errorf("failed to read total: %w", err))
		}
		if err := t.store.SetTotalCalories(total - kind.Sign()*item.Calories); err != nil {
			return false, t.resync(fmt.Errorf("failed to update total: %w", err))
		}
	}

	if err := t.refresh(); err != nil {
		return false, err
	}
	logger.Debug("Removed item", "kind", kind, "id", id, "found", found, "total", t.state.TotalCalories)

	t.render()
	return found, nil
}

// SetLimit stores a new daily limit, which must be positive.
func (t *Tracker) SetLimit(limit int) error {
	if err := validation.Limit(limit); err != nil {
		return err
	}
	if err := t.store.SetCalorieLimit(limit); err != nil {
		return fmt.Errorf("failed to set limit: %w", err)
	}
	return t.refreshAndRender()
}

// ResetLimit drops the stored limit so the default applies.
func (t *Tracker) ResetLimit() error {
	if err := t.store.ResetCalorieLimit(); err != nil {
		return fmt.Errorf("failed to reset limit: %w", err)
	}
	return t.refreshAndRender()
}

// ResetDay clears the total and both lists, keeping the limit.
func (t *Tracker) ResetDay() error {
	if err := t.store.ResetDay(); err != nil {
		return fmt.Errorf("failed to reset day: %w", err)
	}
	logger.Debug("Day reset")
	return t.refreshAndRender()
}

// Reload re-reads storage, for when another process has written to it.
func (t *Tracker) Reload() error {
	return t.refreshAndRender()
}

// Verify returns a *DriftError when the stored total disagrees with the lists.
func (t *Tracker) Verify() error {
	if derived := t.state.DerivedTotal(); derived != t.state.TotalCalories {
		return &DriftError{Stored: t.state.TotalCalories, Derived: derived}
	}
	return nil
}

// Reconcile rewrites the stored total from the lists and returns the
// correction that was applied.
func (t *Tracker) Reconcile() (int, error) {
	if err := t.refresh(); err != nil {
		return 0, err
	}
	derived := t.state.DerivedTotal()
	delta := derived - t.state.TotalCalories
	if delta != 0 {
		if err := t.store.SetTotalCalories(derived); err != nil {
			return 0, fmt.Errorf("failed to update total: %w", err)
		}
		logger.Info("Reconciled total", "from", t.state.TotalCalories, "to", derived)
	}
	return delta, t.refreshAndRender()
}

// State returns a copy of the mirrored state.
func (t *Tracker) State() models.State {
	return t.state.Clone()
}

// Summary derives the display figures from the mirror.
func (t *Tracker) Summary() presenter.Summary {
	return presenter.Present(t.state)
}

// Store returns the storage the tracker writes through.
func (t *Tracker) Store() *storage.Storage {
	return t.store
}

func (t *Tracker) refresh() error {
	state, err := t.store.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	t.state = state
	return nil
}

// resync is used when a mutation fails after its list write has landed. The
// mirror is reloaded so Verify sees the drift, but the sink is not signalled.
func (t *Tracker) resync(cause error) error {
	if err := t.refresh(); err != nil {
		logger.Warn("Could not reload state after failed write", "error", err)
	}
	return cause
}

func (t *Tracker) refreshAndRender() error {
	if err := t.refresh(); err != nil {
		return err
	}
	t.render()
	return nil
}

func (t *Tracker) render() {
	t.sink.Render(presenter.Present(t.state))
}
