package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/session"
	"github.com/julianstephens/tally/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if dir := ctx.ConfigDir(); dir != "" {
		lock, err := session.Acquire(dir)
		var held *session.HeldError
		if errors.As(err, &held) {
			return fmt.Errorf("%w; close it first", held)
		}
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("Failed to release session", "error", err)
			}
		}()
	}

	ctx.PerformAutomaticBackup()

	return tui.Run(ctx.Storage(), tui.Options{
		IDs:   ctx.idGenerator(),
		Watch: ctx.ConfigDir() != "",
	})
}
