package cli

import (
	"fmt"

	"github.com/julianstephens/oneword/internal/validation"
)

type MeCmd struct {
	Name     string `short:"n" help:"Update display name."`
	Timezone string `short:"z" help:"Update IANA timezone."`
}

func (c *MeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	changed := false
	if c.Name != "" {
		me.Name = c.Name
		changed = true
	}
	if c.Timezone != "" {
		if err := validation.ValidateTimezone(c.Timezone); err != nil {
			return err
		}
		me.Timezone = c.Timezone
		changed = true
	}

	if changed {
		if err := ctx.Store.SaveParticipant(me); err != nil {
			return err
		}
		fmt.Println("Updated.")
	}

	fmt.Printf("Name:     %s\n", me.Name)
	fmt.Printf("Timezone: %s\n", me.Zone())
	fmt.Printf("ID:       %s\n", me.ID)
	return nil
}
