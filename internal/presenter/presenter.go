// Package presenter turns tracker state into the values a view displays.
// Everything here is a pure function of its arguments.
package presenter

import (
	"strings"

	"github.com/julianstephens/tally/internal/models"
)

// Summary is the set of figures shown for the day.
type Summary struct {
	Limit     int     `json:"limit" yaml:"limit"`
	Total     int     `json:"total" yaml:"total"`
	Consumed  int     `json:"consumed" yaml:"consumed"`
	Burned    int     `json:"burned" yaml:"burned"`
	Remaining int     `json:"remaining" yaml:"remaining"`
	Progress  float64 `json:"progress" yaml:"progress"`
	OverLimit bool    `json:"over_limit" yaml:"over_limit"`
}

// ItemEvent announces a new item to the view.
type ItemEvent struct {
	ID       string
	Name     string
	Calories int
	Kind     models.Kind
}

// NewItemEvent builds the event for an item of the given kind.
func NewItemEvent(item models.Item, kind models.Kind) ItemEvent {
	return ItemEvent{ID: item.ID, Name: item.Name, Calories: item.Calories, Kind: kind}
}

// Present derives the summary. Progress is not capped at 100.
func Present(s models.State) Summary {
	remaining := s.CalorieLimit - s.TotalCalories
	return Summary{
		Limit:     s.CalorieLimit,
		Total:     s.TotalCalories,
		Consumed:  s.Consumed(),
		Burned:    s.Burned(),
		Remaining: remaining,
		Progress:  Progress(s.TotalCalories, s.CalorieLimit),
		OverLimit: remaining <= 0,
	}
}

// Progress is total as a percentage of limit, 0 when the total is negative.
func Progress(total, limit int) float64 {
	if total < 0 || limit <= 0 {
		return 0
	}
	return float64(total) / float64(limit) * 100
}

// Matches reports whether name contains query, ignoring case.
func Matches(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

// Filter keeps the items whose names match query, in their original order.
func Filter(items []models.Item, query string) []models.Item {
	if query == "" {
		return items
	}
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if Matches(item.Name, query) {
			out = append(out, item)
		}
	}
	return out
}
