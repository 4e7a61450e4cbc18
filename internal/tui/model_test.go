package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/ids"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tui/components/itemlist"
)

func setupModel(t *testing.T) (Model, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	m, err := NewModel(storage.New(mem), ids.NewSequence("t"))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m, mem
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyRune(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestTabsCycle(t *testing.T) {
	m, _ := setupModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateMeals {
		t.Fatalf("state = %v, want meals", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateSummary {
		t.Errorf("state = %v, want summary after wrapping", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateWorkouts {
		t.Errorf("state = %v, want workouts", m.state)
	}
}

func TestSubmitItem(t *testing.T) {
	m, _ := setupModel(t)
	m = send(t, m, itemlist.AddItemMsg{Kind: models.KindMeal})
	if m.state != StateItemForm || m.itemForm == nil {
		t.Fatalf("AddItemMsg did not open the form, state = %v", m.state)
	}

	m.itemForm.Name = "Toast"
	m.itemForm.Calories = "abc"
	if m.submitItem() {
		t.Fatal("invalid calories were accepted")
	}
	if m.errMsg == "" {
		t.Error("expected a validation message")
	}

	m.itemForm.Calories = "180"
	if !m.submitItem() {
		t.Fatalf("valid item rejected: %s", m.errMsg)
	}
	if got := m.sink.summary.Consumed; got != 180 {
		t.Errorf("consumed = %d, want 180", got)
	}
	if !strings.Contains(m.status, `Added meal "Toast"`) {
		t.Errorf("status = %q", m.status)
	}
}

func TestConfirmDelete(t *testing.T) {
	m, _ := setupModel(t)
	item := models.Item{ID: "w1", Name: "Yoga", Calories: 150}
	if err := m.tracker.AddWorkout(item); err != nil {
		t.Fatal(err)
	}
	m.refreshLists()
	m.state = StateWorkouts

	m = send(t, m, itemlist.DeleteItemMsg{Kind: models.KindWorkout, Item: item})
	if m.state != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm", m.state)
	}
	if !strings.Contains(m.View(), `Delete workout "Yoga"`) {
		t.Error("confirmation prompt not shown")
	}

	m = send(t, m, keyRune("n"))
	if m.state != StateWorkouts || len(m.tracker.State().Workouts) != 1 {
		t.Fatal("declining must keep the workout")
	}

	m = send(t, m, itemlist.DeleteItemMsg{Kind: models.KindWorkout, Item: item})
	m = send(t, m, keyRune("y"))
	if len(m.tracker.State().Workouts) != 0 {
		t.Error("workout not removed")
	}
	if m.workouts.Len() != 0 {
		t.Error("list not refreshed after removal")
	}
	if m.sink.summary.Total != 0 {
		t.Errorf("total = %d, want 0", m.sink.summary.Total)
	}
}

func TestResetDayKeepsLimit(t *testing.T) {
	m, _ := setupModel(t)
	if err := m.tracker.SetLimit(1600); err != nil {
		t.Fatal(err)
	}
	if err := m.tracker.AddMeal(models.Item{ID: "m1", Name: "Pizza", Calories: 1200}); err != nil {
		t.Fatal(err)
	}

	m = send(t, m, keyRune("R"))
	if m.state != StateConfirmReset {
		t.Fatalf("state = %v, want confirm reset", m.state)
	}
	m = send(t, m, keyRune("y"))

	state := m.tracker.State()
	if state.CalorieLimit != 1600 || state.TotalCalories != 0 || len(state.Meals) != 0 {
		t.Errorf("state after reset = %+v", state)
	}
	if m.state != StateSummary {
		t.Errorf("state = %v, want summary", m.state)
	}
}

func TestSubmitLimit(t *testing.T) {
	m, _ := setupModel(t)
	m = send(t, m, keyRune("L"))
	if m.state != StateLimitForm || m.limitForm.Limit != "2000" {
		t.Fatalf("limit form not prefilled: state %v, form %+v", m.state, m.limitForm)
	}

	m.limitForm.Limit = "0"
	if m.submitLimit() {
		t.Error("zero limit accepted")
	}
	m.limitForm.Limit = "2400"
	if !m.submitLimit() {
		t.Fatalf("limit rejected: %s", m.errMsg)
	}
	if m.sink.summary.Limit != 2400 {
		t.Errorf("limit = %d", m.sink.summary.Limit)
	}
}

func TestWriteFailureShowsError(t *testing.T) {
	m, mem := setupModel(t)
	mem.FailWrites(constants.SlotMeals, errors.New("read-only filesystem"))

	m.itemForm = &ItemFormModel{Kind: models.KindMeal, Name: "Soup", Calories: "90"}
	m.submitItem()
	if !strings.Contains(m.errMsg, "read-only filesystem") {
		t.Errorf("errMsg = %q", m.errMsg)
	}
	if len(m.tracker.State().Meals) != 0 {
		t.Error("failed write changed state")
	}
}

func TestPartialWriteKeepsListsInStep(t *testing.T) {
	m, mem := setupModel(t)
	mem.FailWrites(constants.SlotTotalCalories, errors.New("io error"))

	m.itemForm = &ItemFormModel{Kind: models.KindMeal, Name: "Soup", Calories: "90"}
	m.submitItem()
	_ = m.refreshLists()
	if !strings.Contains(m.errMsg, "io error") {
		t.Errorf("errMsg = %q", m.errMsg)
	}
	if m.meals.Len() != 1 {
		t.Fatalf("meal list has %d items, want the stored meal", m.meals.Len())
	}

	m.pendingDelete = &itemlist.DeleteItemMsg{Kind: models.KindMeal, Item: m.tracker.State().Meals[0]}
	_ = m.confirmDelete()
	if m.meals.Len() != 0 {
		t.Errorf("meal list has %d items after a removal that reached storage", m.meals.Len())
	}
}

func TestStoreChangedReloads(t *testing.T) {
	m, mem := setupModel(t)
	other := storage.New(mem)
	if err := other.AppendItem(models.KindMeal, models.Item{ID: "x1", Name: "Snack", Calories: 120}); err != nil {
		t.Fatal(err)
	}
	if err := other.SetTotalCalories(120); err != nil {
		t.Fatal(err)
	}

	m = send(t, m, storeChangedMsg{})
	if m.sink.summary.Total != 120 {
		t.Errorf("total after reload = %d", m.sink.summary.Total)
	}
	if m.meals.Len() != 1 {
		t.Errorf("meal list has %d items after reload", m.meals.Len())
	}
}

func TestSummaryView(t *testing.T) {
	m, _ := setupModel(t)
	if err := m.tracker.AddMeal(models.Item{ID: "m1", Name: "Feast", Calories: 2500}); err != nil {
		t.Fatal(err)
	}

	view := m.View()
	for _, want := range []string{"Summary", "Remaining", "-500", "125%", "Daily limit reached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressBarClampsFill(t *testing.T) {
	bar := progressBar(250, true)
	if strings.Count(bar, "█") != barWidth {
		t.Errorf("bar should be full at 250%%: %q", bar)
	}
	if !strings.Contains(bar, "250%") {
		t.Errorf("label should keep the unclamped value: %q", bar)
	}
	if strings.Count(progressBar(0, false), "░") != barWidth {
		t.Error("bar should be empty at 0%")
	}
}

func TestWatcherSeesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := newWatcher(path)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	got := make(chan tea.Msg, 1)
	go func() { got <- w.wait()() }()

	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"version":1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-got:
		if _, ok := msg.(storeChangedMsg); !ok {
			t.Errorf("got %#v, want storeChangedMsg", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
