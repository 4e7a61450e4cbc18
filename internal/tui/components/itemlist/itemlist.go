// Package itemlist shows one day's meals or workouts.
package itemlist

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/presenter"
)

type AddItemMsg struct {
	Kind models.Kind
}

type DeleteItemMsg struct {
	Kind models.Kind
	Item models.Item
}

type Item struct {
	models.Item
}

func (i Item) Title() string       { return i.Name }
func (i Item) Description() string { return fmt.Sprintf("%d cal", i.Calories) }
func (i Item) FilterValue() string { return i.Name }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap(kind models.Kind) KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add "+kind.String()),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete "+kind.String()),
		),
	}
}

type Model struct {
	kind models.Kind
	list list.Model
	keys KeyMap
}

func New(kind models.Kind, items []models.Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = strings.ToUpper(kind.String()[:1]) + kind.String()[1:] + "s"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.Filter = SubstringFilter

	keys := DefaultKeyMap(kind)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}

	return Model{kind: kind, list: l, keys: keys}
}

func toListItems(items []models.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = Item{Item: it}
	}
	return out
}

// SetItems replaces the list contents, keeping any active filter.
func (m *Model) SetItems(items []models.Item) tea.Cmd {
	return m.list.SetItems(toListItems(items))
}

// Selected returns the highlighted item.
func (m Model) Selected() (models.Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Item, ok
}

// Filtering reports whether the filter prompt has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			kind := m.kind
			return m, func() tea.Msg { return AddItemMsg{Kind: kind} }
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.Selected(); ok {
				kind := m.kind
				return m, func() tea.Msg { return DeleteItemMsg{Kind: kind, Item: item} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Len() == 0 && !m.Filtering() {
		return fmt.Sprintf("\n  No %ss yet.\n  Press 'a' to add one.", m.kind)
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// SubstringFilter keeps targets containing term, ignoring case, in their
// original order.
func SubstringFilter(term string, targets []string) []list.Rank {
	var ranks []list.Rank
	needle := foldRunes(term)
	for i, target := range targets {
		if !presenter.Matches(target, term) {
			continue
		}
		ranks = append(ranks, list.Rank{
			Index:          i,
			MatchedIndexes: matchedRunes(foldRunes(target), needle),
		})
	}
	return ranks
}

// foldRunes lowercases rune by rune so indexes line up with the displayed text.
func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func matchedRunes(hay, needle []rune) []int {
	if len(needle) == 0 {
		return nil
	}
	for start := 0; start+len(needle) <= len(hay); start++ {
		if string(hay[start:start+len(needle)]) != string(needle) {
			continue
		}
		idx := make([]int, len(needle))
		for j := range needle {
			idx[j] = start + j
		}
		return idx
	}
	return nil
}
