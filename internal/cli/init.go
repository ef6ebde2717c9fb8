package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/validation"
)

type InitCmd struct {
	Name     string `arg:"" help:"Your display name." default:"You"`
	Timezone string `short:"z" help:"IANA timezone identifier." default:"America/New_York"`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := validation.ValidateTimezone(c.Timezone); err != nil {
		return err
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	now := time.Now().UTC()
	me := models.Participant{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Timezone:  c.Timezone,
		CreatedAt: now,
	}
	if err := ctx.Store.SaveParticipant(me); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	settings.MeID = me.ID
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	// Seed the system friend so there is always a counterpart to exchange
	// with; it auto-replies once per day.
	system := models.Participant{
		ID:        models.SystemParticipantID,
		Name:      "System Friend",
		CreatedAt: now,
	}
	if err := ctx.Store.SaveParticipant(system); err != nil {
		return err
	}
	conn := models.Connection{
		ID:        uuid.New().String(),
		A:         me.ID,
		B:         system.ID,
		CreatedAt: now,
	}
	if err := ctx.Store.AddConnection(conn); err != nil {
		return err
	}

	fmt.Printf("Initialized oneword storage at: %s\n", ctx.Store.GetConfigPath())
	fmt.Printf("Welcome, %s (%s). Say hello to your System Friend!\n", me.Name, me.Timezone)
	return nil
}
