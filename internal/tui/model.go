package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/ids"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/tui/components/itemlist"
)

type SessionState int

const (
	StateSummary SessionState = iota
	StateMeals
	StateWorkouts
	StateItemForm
	StateLimitForm
	StateConfirmDelete
	StateConfirmReset
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

var tabTitles = []string{"Summary", "Meals", "Workouts"}

type ItemFormModel struct {
	Kind     models.Kind
	Name     string
	Calories string
}

type LimitFormModel struct {
	Limit string
}

// Options configure Run.
type Options struct {
	IDs ids.Generator
	// Watch reloads the view when another process writes the store file.
	Watch bool
}

type Model struct {
	tracker       *tracker.Tracker
	sink          *viewSink
	ids           ids.Generator
	watcher       *watcher
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	meals         itemlist.Model
	workouts      itemlist.Model
	form          *huh.Form
	itemForm      *ItemFormModel
	limitForm     *LimitFormModel
	pendingDelete *itemlist.DeleteItemMsg
	status        string
	errMsg        string
	quitting      bool
	width         int
	height        int
}

func NewModel(store *storage.Storage, gen ids.Generator) (Model, error) {
	if gen == nil {
		gen = ids.Default
	}
	sink := &viewSink{}
	tr, err := tracker.New(store, sink)
	if err != nil {
		return Model{}, err
	}
	// Items announced at startup are not news.
	sink.last = nil

	state := tr.State()
	return Model{
		tracker:  tr,
		sink:     sink,
		ids:      gen,
		state:    StateSummary,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		meals:    itemlist.New(models.KindMeal, state.Meals, 0, 0),
		workouts: itemlist.New(models.KindWorkout, state.Workouts, 0, 0),
	}, nil
}

// Run starts the TUI and blocks until it exits.
func Run(store *storage.Storage, opts Options) error {
	m, err := NewModel(store, opts.IDs)
	if err != nil {
		return err
	}

	if opts.Watch {
		w, err := newWatcher(store.Provider().GetConfigPath())
		if err != nil {
			logger.Warn("File watcher unavailable, external changes will not show", "error", err)
		} else {
			m.watcher = w
			defer w.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateMeals, StateWorkouts:
		keys = append(keys, m.activeListKeys()...)
	case StateSummary:
		keys = append(keys, m.keys.Limit, m.keys.Reset)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	day := []key.Binding{m.keys.Limit, m.keys.Reset, m.keys.Reload}
	return [][]key.Binding{global, day, m.activeListKeys()}
}

func (m Model) activeListKeys() []key.Binding {
	switch m.state {
	case StateMeals:
		k := itemlist.DefaultKeyMap(models.KindMeal)
		return []key.Binding{k.Add, k.Delete}
	case StateWorkouts:
		k := itemlist.DefaultKeyMap(models.KindWorkout)
		return []key.Binding{k.Add, k.Delete}
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return m.watcher.wait()
}

// refreshLists copies the tracker's mirror into both list components.
func (m *Model) refreshLists() tea.Cmd {
	state := m.tracker.State()
	return tea.Batch(
		m.meals.SetItems(state.Meals),
		m.workouts.SetItems(state.Workouts),
	)
}

func (m *Model) setError(err error) {
	m.errMsg = err.Error()
	m.status = ""
	logger.Error("Operation failed", "error", err)
}

func (m *Model) clearMessages() {
	m.errMsg = ""
	m.status = ""
}
