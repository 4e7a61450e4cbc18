package cli

import (
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/validation"
)

type LimitCmd struct {
	Set   LimitSetCmd   `cmd:"" help:"Set the daily calorie limit."`
	Reset LimitResetCmd `cmd:"" help:"Go back to the default limit."`
}

type LimitSetCmd struct {
	Calories string `arg:"" help:"New daily limit."`
}

func (c *LimitSetCmd) Run(ctx *Context) error {
	limit, err := validation.ParseLimit(c.Calories)
	if err != nil {
		return err
	}
	ctx.WarnIfSessionActive()

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.SetLimit(limit); err != nil {
		return err
	}

	ctx.printf("✓ Daily limit set to %d\n\n", limit)
	ctx.printSummary(tr.Summary())
	return nil
}

type LimitResetCmd struct{}

func (c *LimitResetCmd) Run(ctx *Context) error {
	ctx.WarnIfSessionActive()

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.ResetLimit(); err != nil {
		return err
	}

	ctx.printf("✓ Daily limit reset to %d\n\n", constants.DefaultCalorieLimit)
	ctx.printSummary(tr.Summary())
	return nil
}
