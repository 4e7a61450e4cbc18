package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports input the user has to correct and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseItem checks a name/calories pair coming from a form or the command line
// and converts calories to an integer. This is the only place calorie text is
// turned into a number.
func ParseItem(name, calories string) (string, int, error) {
	name = strings.TrimSpace(name)
	calories = strings.TrimSpace(calories)

	if name == "" {
		return "", 0, &ValidationError{Field: "name", Reason: "please enter all fields"}
	}
	if calories == "" {
		return "", 0, &ValidationError{Field: "calories", Reason: "please enter all fields"}
	}

	n, err := strconv.Atoi(calories)
	if err != nil {
		return "", 0, &ValidationError{Field: "calories", Reason: fmt.Sprintf("%q is not a whole number", calories)}
	}
	return name, n, nil
}

// ParseLimit converts a daily limit typed by the user.
func ParseLimit(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, &ValidationError{Field: "limit", Reason: "please add a limit"}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ValidationError{Field: "limit", Reason: fmt.Sprintf("%q is not a whole number", text)}
	}
	return n, Limit(n)
}

// Limit rejects limits that would make the progress figure meaningless.
func Limit(n int) error {
	if n <= 0 {
		return &ValidationError{Field: "limit", Reason: "must be a positive number of calories"}
	}
	return nil
}

// Name rejects blank item names.
func Name(s string) error {
	if strings.TrimSpace(s) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	return nil
}

// Calories is the form-field form of ParseItem's calorie check.
func Calories(s string) error {
	_, _, err := ParseItem("x", s)
	return err
}
