package cli

type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Yes {
		confirmed, err := ctx.confirm(
			"Reset today?",
			"All meals and workouts will be cleared. Your limit is kept.",
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
	ctx.PerformAutomaticBackup()

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.ResetDay(); err != nil {
		return err
	}

	ctx.printf("✓ Day reset\n\n")
	ctx.printSummary(tr.Summary())
	return nil
}
