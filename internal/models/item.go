package models

import (
	"fmt"

	"github.com/julianstephens/tally/internal/ids"
)

// Kind tells meals from workouts.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

// Kinds lists both kinds, meals first.
var Kinds = []Kind{KindMeal, KindWorkout}

// Sign is the direction an item of this kind moves the running total.
func (k Kind) Sign() int {
	if k == KindWorkout {
		return -1
	}
	return 1
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts "meal"/"meals" and "workout"/"workouts".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "meal", "meals":
		return KindMeal, nil
	case "workout", "workouts":
		return KindWorkout, nil
	}
	return "", fmt.Errorf("unknown item kind: %q", s)
}

// Item is a single meal or workout. Items are values: the ID is fixed at
// creation and an item is never edited in place.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Calories int    `json:"calories" yaml:"calories"`
}

// NewItem creates an item with a fresh identifier.
func NewItem(gen ids.Generator, name string, calories int) Item {
	return Item{
		ID:       gen.NewID(),
		Name:     name,
		Calories: calories,
	}
}
