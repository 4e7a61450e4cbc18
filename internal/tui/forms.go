package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/validation"
)

func NewItemForm(fm *ItemFormModel) *huh.Form {
	title := "Add " + fm.Kind.String()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(validation.Name),
			huh.NewInput().
				Title("Calories").
				Value(&fm.Calories).
				Validate(validation.Calories),
		).Title(title),
	)
}

func NewLimitForm(fm *LimitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily calorie limit").
				Value(&fm.Limit).
				Validate(func(s string) error {
					_, err := validation.ParseLimit(s)
					return err
				}),
		),
	)
}
