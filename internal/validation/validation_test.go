package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/tally/internal/models"
)

func hasConflict(result ValidationResult, typ ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func TestValidateState_Clean(t *testing.T) {
	s := models.State{
		CalorieLimit:  2000,
		TotalCalories: -200,
		Meals:         []models.Item{{ID: "m1", Name: "Oatmeal", Calories: 300}},
		Workouts:      []models.Item{{ID: "w1", Name: "Run", Calories: 500}},
	}

	result := ValidateState(s)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}

func TestValidateState_Drift(t *testing.T) {
	s := models.State{
		CalorieLimit:  2000,
		TotalCalories: 900,
		Meals:         []models.Item{{ID: "m1", Name: "Oatmeal", Calories: 300}},
	}

	result := ValidateState(s)
	if !hasConflict(result, ConflictTotalDrift) {
		t.Fatal("expected total drift conflict")
	}
	if !strings.Contains(result.FormatReport(), "reconcile") {
		t.Errorf("report should point at reconcile: %s", result.FormatReport())
	}
}

func TestValidateState_DuplicateAcrossKinds(t *testing.T) {
	s := models.State{
		CalorieLimit:  2000,
		TotalCalories: 0,
		Meals:         []models.Item{{ID: "same", Name: "Soup", Calories: 100}},
		Workouts:      []models.Item{{ID: "same", Name: "Walk", Calories: 100}},
	}

	if !hasConflict(ValidateState(s), ConflictDuplicateID) {
		t.Error("expected duplicate id conflict")
	}
}

func TestValidateState_BadItems(t *testing.T) {
	s := models.State{
		CalorieLimit:  0,
		TotalCalories: 200,
		Meals: []models.Item{
			{ID: "", Name: "Ghost", Calories: 100},
			{ID: "m2", Name: " ", Calories: 100},
		},
	}

	result := ValidateState(s)
	for _, typ := range []ConflictType{ConflictInvalidLimit, ConflictMissingID, ConflictEmptyName} {
		if !hasConflict(result, typ) {
			t.Errorf("expected %s conflict", typ)
		}
	}
}
