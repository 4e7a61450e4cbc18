package cli

import (
	"fmt"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/presenter"
	"github.com/julianstephens/tally/internal/validation"
)

type MealCmd struct {
	Add  MealAddCmd  `cmd:"" help:"Log a meal."`
	Rm   MealRmCmd   `cmd:"" aliases:"remove" help:"Remove a meal by ID."`
	List MealListCmd `cmd:"" default:"1" help:"List today's meals."`
}

type MealAddCmd struct {
	Name     string `arg:"" help:"What you ate."`
	Calories string `arg:"" help:"Calories consumed."`
}

func (c *MealAddCmd) Run(ctx *Context) error {
	return addItem(ctx, models.KindMeal, c.Name, c.Calories)
}

type MealRmCmd struct {
	ID  string `arg:"" help:"ID of the meal to remove."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *MealRmCmd) Run(ctx *Context) error {
	return removeItem(ctx, models.KindMeal, c.ID, c.Yes)
}

type MealListCmd struct {
	Filter string `short:"f" help:"Only show meals whose name contains this text."`
}

func (c *MealListCmd) Run(ctx *Context) error {
	return listItems(ctx, models.KindMeal, c.Filter)
}

type WorkoutCmd struct {
	Add  WorkoutAddCmd  `cmd:"" help:"Log a workout."`
	Rm   WorkoutRmCmd   `cmd:"" aliases:"remove" help:"Remove a workout by ID."`
	List WorkoutListCmd `cmd:"" default:"1" help:"List today's workouts."`
}

type WorkoutAddCmd struct {
	Name     string `arg:"" help:"What you did."`
	Calories string `arg:"" help:"Calories burned."`
}

func (c *WorkoutAddCmd) Run(ctx *Context) error {
	return addItem(ctx, models.KindWorkout, c.Name, c.Calories)
}

type WorkoutRmCmd struct {
	ID  string `arg:"" help:"ID of the workout to remove."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *WorkoutRmCmd) Run(ctx *Context) error {
	return removeItem(ctx, models.KindWorkout, c.ID, c.Yes)
}

type WorkoutListCmd struct {
	Filter string `short:"f" help:"Only show workouts whose name contains this text."`
}

func (c *WorkoutListCmd) Run(ctx *Context) error {
	return listItems(ctx, models.KindWorkout, c.Filter)
}

func addItem(ctx *Context, kind models.Kind, name, calories string) error {
	name, cals, err := validation.ParseItem(name, calories)
	if err != nil {
		return err
	}
	ctx.WarnIfSessionActive()

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	item := models.NewItem(ctx.idGenerator(), name, cals)
	if err := tr.Add(kind, item); err != nil {
		return err
	}

	ctx.printf("✓ Added %s %q (%d cal), ID: %s\n\n", kind, item.Name, item.Calories, item.ID)
	ctx.printSummary(tr.Summary())
	return nil
}

func removeItem(ctx *Context, kind models.Kind, id string, yes bool) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	item, ok := tr.State().Find(kind, id)
	if !ok {
		return fmt.Errorf("no %s with ID %s", kind, id)
	}

	if !yes {
		confirmed, err := ctx.confirm(
			fmt.Sprintf("Remove %s %q?", kind, item.Name),
			fmt.Sprintf("%d calories will be taken off today's total.", item.Calories),
		)
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.printf("Cancelled.\n")
			return nil
		}
	}
	ctx.WarnIfSessionActive()

	if _, err := tr.Remove(kind, id); err != nil {
		return err
	}
	ctx.printf("✓ Removed %s %q\n\n", kind, item.Name)
	ctx.printSummary(tr.Summary())
	return nil
}

func listItems(ctx *Context, kind models.Kind, filter string) error {
	items, err := ctx.Storage().Items(kind)
	if err != nil {
		return fmt.Errorf("failed to get %ss: %w", kind, err)
	}

	shown := presenter.Filter(items, filter)
	if len(shown) == 0 {
		if filter != "" {
			ctx.printf("No %ss match %q\n", kind, filter)
		} else {
			ctx.printf("No %ss logged today\n", kind)
		}
		return nil
	}

	for _, item := range shown {
		ctx.printf("  %-36s  %-24s %6d cal\n", item.ID, item.Name, item.Calories)
	}
	ctx.printf("\n%d %s(s), %d cal\n", len(shown), kind, models.SumCalories(shown))
	return nil
}
