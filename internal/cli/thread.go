package cli

import (
	"fmt"
)

type ThreadCmd struct {
	To   string `arg:"" help:"Connection id or friend name."`
	Days int    `short:"d" help:"Number of days to show." default:"14"`
}

func (c *ThreadCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}
	conn, err := ctx.ResolveConnection(me.ID, c.To)
	if err != nil {
		return err
	}

	days, err := ctx.Engine.ThreadForConnection(me.ID, conn.ID, c.Days)
	if err != nil {
		return err
	}

	them := conn.Other(me.ID)
	themName := them
	if p, err := ctx.Store.GetParticipant(them); err == nil {
		themName = p.Name
	}

	fmt.Printf("Exchange with %s (last %d days):\n\n", themName, c.Days)
	for _, day := range days {
		fmt.Printf("%s  %-15s  %s\n", day.Date, threadCell(day.Mine, day.Missed), threadCell(day.Theirs, day.Missed))
	}
	return nil
}

func threadCell(text *string, missed bool) string {
	if text != nil {
		return *text
	}
	if missed {
		return "(missed)"
	}
	return "—"
}
