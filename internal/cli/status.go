package cli

import (
	"fmt"

	"github.com/julianstephens/oneword/internal/reveal"
)

type StatusCmd struct {
	To string `arg:"" optional:"" help:"Connection id or friend name (default: all connections)."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	if c.To != "" {
		conn, err := ctx.ResolveConnection(me.ID, c.To)
		if err != nil {
			return err
		}
		return c.printStatus(ctx, me.ID, conn.ID, conn.Other(me.ID))
	}

	connections, err := ctx.Store.GetConnectionsFor(me.ID)
	if err != nil {
		return err
	}
	if len(connections) == 0 {
		fmt.Println("No connections yet. Add one with 'oneword friend add'.")
		return nil
	}

	for _, conn := range connections {
		if err := c.printStatus(ctx, me.ID, conn.ID, conn.Other(me.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (c *StatusCmd) printStatus(ctx *Context, meID, connectionID, themID string) error {
	status, err := ctx.Engine.StatusForConnection(meID, connectionID)
	if err != nil {
		return err
	}

	name := themID
	if them, err := ctx.Store.GetParticipant(themID); err == nil {
		name = them.Name
	}

	fmt.Printf("%-20s  %s\n", name, reveal.Label(status))
	return nil
}
