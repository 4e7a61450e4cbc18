package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Delete the existing store before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force && storage.IsFileBacked(ctx.Store) {
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.printf("Deleted existing store at: %s\n", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized tally storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
