package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/validation"
)

type FriendAddCmd struct {
	Name     string `arg:"" help:"Friend's display name."`
	Timezone string `short:"z" help:"Friend's IANA timezone." default:"America/New_York"`
}

func (c *FriendAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := validation.ValidateTimezone(c.Timezone); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	friend := models.Participant{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Timezone:  c.Timezone,
		CreatedAt: now,
	}
	if err := ctx.Store.SaveParticipant(friend); err != nil {
		return err
	}

	conn := models.Connection{
		ID:        uuid.New().String(),
		A:         me.ID,
		B:         friend.ID,
		CreatedAt: now,
	}
	if err := ctx.Store.AddConnection(conn); err != nil {
		return err
	}

	fmt.Printf("Connected with %s (connection %s)\n", friend.Name, conn.ID)
	return nil
}

type FriendListCmd struct{}

func (c *FriendListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	connections, err := ctx.Store.GetConnectionsFor(me.ID)
	if err != nil {
		return err
	}
	if len(connections) == 0 {
		fmt.Println("No connections yet.")
		return nil
	}

	for _, conn := range connections {
		them, err := ctx.Store.GetParticipant(conn.Other(me.ID))
		if err != nil {
			continue
		}
		fmt.Printf("%-20s  %-20s  connection %s\n", them.Name, them.Zone(), conn.ID)
	}
	return nil
}
