package cli

import (
	"context"
	"fmt"
)

type WordDeleteCmd struct {
	ID string `arg:"" help:"ID of the word to delete."`
}

func (c *WordDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	if err := ctx.Engine.DeleteOwnWord(context.Background(), c.ID, me.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted word %s\n", c.ID)
	return nil
}
