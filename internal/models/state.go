package models

// State is everything the tracker persists.
type State struct {
	CalorieLimit  int    `json:"calorie_limit" yaml:"calorie_limit"`
	TotalCalories int    `json:"total_calories" yaml:"total_calories"`
	Meals         []Item `json:"meals" yaml:"meals"`
	Workouts      []Item `json:"workouts" yaml:"workouts"`
}

// Items returns the list holding items of the given kind.
func (s State) Items(kind Kind) []Item {
	if kind == KindWorkout {
		return s.Workouts
	}
	return s.Meals
}

// Find looks up an item by id within one kind.
func (s State) Find(kind Kind, id string) (Item, bool) {
	for _, item := range s.Items(kind) {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Consumed is the calorie sum over meals.
func (s State) Consumed() int {
	return SumCalories(s.Meals)
}

// Burned is the calorie sum over workouts.
func (s State) Burned() int {
	return SumCalories(s.Workouts)
}

// DerivedTotal is what TotalCalories should equal.
func (s State) DerivedTotal() int {
	return s.Consumed() - s.Burned()
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.Meals = append([]Item(nil), s.Meals...)
	out.Workouts = append([]Item(nil), s.Workouts...)
	return out
}

func SumCalories(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Calories
	}
	return total
}
