package models

import (
	"testing"

	"github.com/julianstephens/tally/internal/ids"
)

func TestNewItem(t *testing.T) {
	gen := ids.NewSequence("t")
	a := NewItem(gen, "Oatmeal", 300)
	b := NewItem(gen, "Oatmeal", 300)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Name != "Oatmeal" || a.Calories != 300 {
		t.Errorf("unexpected item: %+v", a)
	}
}

func TestKindSign(t *testing.T) {
	if KindMeal.Sign() != 1 {
		t.Errorf("meal sign = %d, want 1", KindMeal.Sign())
	}
	if KindWorkout.Sign() != -1 {
		t.Errorf("workout sign = %d, want -1", KindWorkout.Sign())
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"meal", KindMeal, false},
		{"meals", KindMeal, false},
		{"workout", KindWorkout, false},
		{"workouts", KindWorkout, false},
		{"snack", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStateDerived(t *testing.T) {
	s := State{
		CalorieLimit: 2000,
		Meals:        []Item{{ID: "m1", Name: "Oatmeal", Calories: 300}, {ID: "m2", Name: "Soup", Calories: 250}},
		Workouts:     []Item{{ID: "w1", Name: "Run", Calories: 500}},
	}

	if s.Consumed() != 550 {
		t.Errorf("Consumed() = %d, want 550", s.Consumed())
	}
	if s.Burned() != 500 {
		t.Errorf("Burned() = %d, want 500", s.Burned())
	}
	if s.DerivedTotal() != 50 {
		t.Errorf("DerivedTotal() = %d, want 50", s.DerivedTotal())
	}

	if _, ok := s.Find(KindWorkout, "m1"); ok {
		t.Error("meal id should not be found among workouts")
	}
	if item, ok := s.Find(KindMeal, "m2"); !ok || item.Name != "Soup" {
		t.Errorf("Find(meal, m2) = %+v, %v", item, ok)
	}
}

func TestStateClone(t *testing.T) {
	s := State{Meals: []Item{{ID: "m1", Calories: 1}}}
	c := s.Clone()
	c.Meals[0].Calories = 99
	if s.Meals[0].Calories != 1 {
		t.Error("Clone shares the meals slice with the original")
	}
}
