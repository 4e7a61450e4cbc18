package tui

import (
	"fmt"

	"github.com/julianstephens/tally/internal/presenter"
)

// viewSink collects tracker signals between updates. The model holds it by
// pointer because bubbletea copies the model on every update.
type viewSink struct {
	summary presenter.Summary
	last    *presenter.ItemEvent
}

func (s *viewSink) Render(sum presenter.Summary) {
	s.summary = sum
}

func (s *viewSink) AppendItem(ev presenter.ItemEvent) {
	s.last = &ev
}

// takeStatus returns a one-line note about the most recent new item.
func (s *viewSink) takeStatus() string {
	if s.last == nil {
		return ""
	}
	ev := *s.last
	s.last = nil
	return fmt.Sprintf("Added %s %q (%d cal)", ev.Kind, ev.Name, ev.Calories)
}
