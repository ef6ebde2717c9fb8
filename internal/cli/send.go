package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/validation"
)

type SendCmd struct {
	To     string `arg:"" help:"Connection id or friend name."`
	Word   string `arg:"" help:"The word to send (single token)."`
	Reveal string `short:"r" help:"Reveal policy (instant|mutual|scheduled)." default:"instant"`
	Time   string `short:"t" help:"Reveal time for scheduled policy (HH:MM local)."`
	Burn   bool   `short:"b" help:"Burn if unread (mutual policy only)."`
}

func (c *SendCmd) Validate() error {
	if c.Time != "" {
		if err := validation.ValidateClockTime(c.Time); err != nil {
			return err
		}
	}
	return nil
}

func (c *SendCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	policy, err := models.ParseRevealPolicy(c.Reveal)
	if err != nil {
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

	word, err := ctx.Engine.Send(context.Background(), me.ID, conn.ID, c.Word, policy, exchange.SendOptions{
		Time: c.Time,
		Burn: c.Burn,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Sent %q for %s (%s reveal)\n", word.Text, word.DateLocal, word.Reveal)
	if word.RevealTime != nil {
		fmt.Printf("Reveals at %s\n", word.RevealTime.Local().Format("15:04"))
	}
	return nil
}
