package cli

import (
	"errors"

	"github.com/julianstephens/tally/internal/tracker"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	ctx.printSummary(tr.Summary())

	var drift *tracker.DriftError
	if err := tr.Verify(); errors.As(err, &drift) {
		ctx.printf("\nWarning: %v. Run 'tally reconcile' to fix.\n", drift)
	}
	return nil
}

type ReconcileCmd struct{}

func (c *ReconcileCmd) Run(ctx *Context) error {
	ctx.WarnIfSessionActive()

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	delta, err := tr.Reconcile()
	if err != nil {
		return err
	}

	if delta == 0 {
		ctx.printf("Total already matches meals minus workouts.\n")
	} else {
		ctx.printf("✓ Total corrected by %+d calories.\n", delta)
	}
	ctx.printSummary(tr.Summary())
	return nil
}
