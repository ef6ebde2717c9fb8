package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/storage"
	"github.com/julianstephens/oneword/internal/validation"
)

type JournalListCmd struct{}

func (c *JournalListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	entries, err := ctx.Store.GetJournalEntries(me.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No journal entries yet.")
		return nil
	}

	for _, e := range entries {
		word := e.Word
		if word == "" {
			word = "—"
		}
		fmt.Printf("%s  %-15s  %s\n", e.DateLocal, word, e.Reflection)
	}
	return nil
}

type JournalWriteCmd struct {
	Word       string `arg:"" help:"Word of the day for your journal."`
	Reflection string `arg:"" optional:"" help:"Optional reflection."`
	Date       string `short:"d" help:"Date (YYYY-MM-DD, default today)."`
}

func (c *JournalWriteCmd) Validate() error {
	if c.Date != "" {
		return validation.ValidateDayKey(c.Date)
	}
	return nil
}

func (c *JournalWriteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entry := models.JournalEntry{
		ParticipantID: me.ID,
		DateLocal:     date,
		Word:          c.Word,
		Reflection:    c.Reflection,
		CreatedAt:     time.Now().UTC(),
	}
	if existing, err := ctx.Store.GetJournalEntry(me.ID, date); err == nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if err := ctx.Store.SaveJournalEntry(entry); err != nil {
		return err
	}

	fmt.Printf("Journal entry saved for %s\n", date)
	return nil
}
