package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID  ConflictType = "duplicate_id"
	ConflictMissingID    ConflictType = "missing_id"
	ConflictEmptyName    ConflictType = "empty_name"
	ConflictTotalDrift   ConflictType = "total_drift"
	ConflictInvalidLimit ConflictType = "invalid_limit"
)

// Conflict represents a detected inconsistency in tracker state
type Conflict struct {
	Type        ConflictType
	Description string
	Kind        models.Kind
	ItemIDs     []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// ValidateState checks a snapshot for problems the tracker cannot repair on
// its own: id collisions across both lists, blank ids or names, a bad limit,
// and a stored total that no longer matches the lists.
func ValidateState(s models.State) ValidationResult {
	var result ValidationResult

	if s.CalorieLimit <= 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidLimit,
			Description: fmt.Sprintf("calorie limit %d is not positive", s.CalorieLimit),
		})
	}

	owner := make(map[string]models.Kind)
	for _, kind := range models.Kinds {
		for _, item := range s.Items(kind) {
			if item.ID == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictMissingID,
					Description: fmt.Sprintf("%s %q has no id", kind, item.Name),
					Kind:        kind,
				})
				continue
			}
			if prev, dup := owner[item.ID]; dup {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateID,
					Description: fmt.Sprintf("id %s is used by a %s and a %s", item.ID, prev, kind),
					Kind:        kind,
					ItemIDs:     []string{item.ID},
				})
			}
			owner[item.ID] = kind

			if strings.TrimSpace(item.Name) == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictEmptyName,
					Description: fmt.Sprintf("%s %s has an empty name", kind, item.ID),
					Kind:        kind,
					ItemIDs:     []string{item.ID},
				})
			}
		}
	}

	if derived := s.DerivedTotal(); derived != s.TotalCalories {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: ConflictTotalDrift,
			Description: fmt.Sprintf("stored total %d does not match meals minus workouts (%d); run 'tally reconcile'",
				s.TotalCalories, derived),
		})
	}

	return result
}
