package tracker

import "github.com/julianstephens/tally/internal/presenter"

// Sink receives everything the tracker wants displayed.
type Sink interface {
	// Render is called after every operation with freshly derived figures.
	Render(presenter.Summary)
	// AppendItem is called once per new item, and once per stored item when
	// the tracker starts.
	AppendItem(presenter.ItemEvent)
}

// NopSink discards all signals.
type NopSink struct{}

func (NopSink) Render(presenter.Summary)       {}
func (NopSink) AppendItem(presenter.ItemEvent) {}
