package tracker

import "github.com/julianstephens/tally/internal/presenter"

// RecordingSink remembers what it was sent.
type RecordingSink struct {
	Renders []presenter.Summary
	Items   []presenter.ItemEvent
}

func (r *RecordingSink) Render(s presenter.Summary) {
	r.Renders = append(r.Renders, s)
}

func (r *RecordingSink) AppendItem(ev presenter.ItemEvent) {
	r.Items = append(r.Items, ev)
}

// Last returns the most recent summary.
func (r *RecordingSink) Last() (presenter.Summary, bool) {
	if len(r.Renders) == 0 {
		return presenter.Summary{}, false
	}
	return r.Renders[len(r.Renders)-1], true
}
