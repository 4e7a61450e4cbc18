package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/tui/components/itemlist"
	"github.com/julianstephens/tally/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.meals.SetSize(msg.Width-h, msg.Height-v-4)
		m.workouts.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case storeChangedMsg:
		if err := m.tracker.Reload(); err != nil {
			m.setError(err)
		} else {
			logger.Debug("Store changed on disk, reloaded")
		}
		cmd := m.refreshLists()
		return m, tea.Batch(cmd, m.watcher.wait())

	case watchErrMsg:
		logger.Warn("File watcher error", "error", msg.err)
		return m, m.watcher.wait()

	case itemlist.AddItemMsg:
		m.clearMessages()
		m.itemForm = &ItemFormModel{Kind: msg.Kind}
		m.form = NewItemForm(m.itemForm)
		m.previousState = m.state
		m.state = StateItemForm
		return m, m.form.Init()

	case itemlist.DeleteItemMsg:
		m.clearMessages()
		m.pendingDelete = &msg
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case StateItemForm:
		cmd = m.handleForm(msg, m.submitItem)
	case StateLimitForm:
		cmd = m.handleForm(msg, m.submitLimit)
	case StateConfirmDelete:
		cmd = m.handleConfirm(msg, m.confirmDelete)
	case StateConfirmReset:
		cmd = m.handleConfirm(msg, m.confirmReset)
	default:
		return m.updateTabs(msg)
	}
	return m, cmd
}

func (m Model) updateTabs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(keyMsg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(keyMsg, m.keys.Limit):
			m.clearMessages()
			m.limitForm = &LimitFormModel{Limit: strconv.Itoa(m.sink.summary.Limit)}
			m.form = NewLimitForm(m.limitForm)
			m.previousState = m.state
			m.state = StateLimitForm
			return m, m.form.Init()
		case key.Matches(keyMsg, m.keys.Reset):
			m.clearMessages()
			m.previousState = m.state
			m.state = StateConfirmReset
			return m, nil
		case key.Matches(keyMsg, m.keys.Reload):
			if err := m.tracker.Reload(); err != nil {
				m.setError(err)
			}
			cmd := m.refreshLists()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateMeals:
		m.meals, cmd = m.meals.Update(msg)
	case StateWorkouts:
		m.workouts, cmd = m.workouts.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case StateMeals:
		return m.meals.Filtering()
	case StateWorkouts:
		return m.workouts.Filtering()
	}
	return false
}

// handleForm drives the active huh form. submit runs once the form completes
// and returns false to keep the form open.
func (m *Model) handleForm(msg tea.Msg, submit func() bool) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.previousState
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if !submit() {
			m.form.State = huh.StateNormal
			return cmd
		}
		m.state = m.previousState
		return tea.Batch(cmd, m.refreshLists())
	case huh.StateAborted:
		m.state = m.previousState
	}
	return cmd
}

func (m *Model) submitItem() bool {
	name, calories, err := validation.ParseItem(m.itemForm.Name, m.itemForm.Calories)
	if err != nil {
		m.errMsg = err.Error()
		return false
	}
	item := models.NewItem(m.ids, name, calories)
	if err := m.tracker.Add(m.itemForm.Kind, item); err != nil {
		m.setError(err)
		return true
	}
	m.status = m.sink.takeStatus()
	return true
}

func (m *Model) submitLimit() bool {
	limit, err := validation.ParseLimit(m.limitForm.Limit)
	if err != nil {
		m.errMsg = err.Error()
		return false
	}
	if err := m.tracker.SetLimit(limit); err != nil {
		m.setError(err)
		return true
	}
	m.status = "Daily limit set to " + strconv.Itoa(limit)
	return true
}

func (m *Model) handleConfirm(msg tea.Msg, action func() tea.Cmd) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.state = m.previousState
		return action()
	case "n", "N", "esc", "q":
		m.pendingDelete = nil
		m.state = m.previousState
	}
	return nil
}

func (m *Model) confirmDelete() tea.Cmd {
	pending := m.pendingDelete
	m.pendingDelete = nil
	if pending == nil {
		return nil
	}
	if _, err := m.tracker.Remove(pending.Kind, pending.Item.ID); err != nil {
		m.setError(err)
		return m.refreshLists()
	}
	m.status = "Removed " + pending.Kind.String() + " " + strconv.Quote(pending.Item.Name)
	return m.refreshLists()
}

func (m *Model) confirmReset() tea.Cmd {
	if err := m.tracker.ResetDay(); err != nil {
		m.setError(err)
		return nil
	}
	m.status = "Day reset"
	return m.refreshLists()
}
