package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/presenter"
)

const barWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSummary:
		content = docStyle.Render(renderSummary(m.sink.summary))
	case StateMeals:
		content = docStyle.Render(m.meals.View())
	case StateWorkouts:
		content = docStyle.Render(m.workouts.View())
	case StateItemForm, StateLimitForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	case StateConfirmReset:
		content = m.viewConfirm("Reset today? All meals and workouts will be cleared.")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return errorStyle.Render("  " + m.errMsg)
	case m.status != "":
		return statusStyle.Render("  " + m.status)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	if m.pendingDelete == nil {
		return ""
	}
	return m.viewConfirm(fmt.Sprintf("Delete %s %q (%d cal)?",
		m.pendingDelete.Kind, m.pendingDelete.Item.Name, m.pendingDelete.Item.Calories))
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func renderSummary(s presenter.Summary) string {
	rows := []string{
		row("Limit", s.Limit),
		row("Consumed", s.Consumed),
		row("Burned", s.Burned),
		row("Total", s.Total),
		row("Remaining", s.Remaining),
		"",
		progressBar(s.Progress, s.OverLimit),
	}
	if s.OverLimit {
		rows = append(rows, dangerStyle.Render("Daily limit reached"))
	}
	return cardStyle.Render(strings.Join(rows, "\n"))
}

func row(label string, value int) string {
	return labelStyle.Render(label) + fmt.Sprintf("%6d", value)
}

// progressBar fills to at most barWidth cells while the percentage label
// keeps the unclamped value.
func progressBar(progress float64, over bool) string {
	filled := int(math.Round(math.Min(progress, 100) / 100 * barWidth))
	filled = max(filled, 0)

	fill := barFillStyle
	if over {
		fill = barOverStyle
	}
	bar := fill.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, progress)
}
