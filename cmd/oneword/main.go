package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/oneword/internal/cli"
	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/oneword/oneword.db"`

	Init   cli.InitCmd   `cmd:"" help:"Initialize oneword storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Send   cli.SendCmd   `cmd:"" help:"Send today's word to a friend."`
	Status cli.StatusCmd `cmd:"" help:"Show today's exchange status."`
	Thread cli.ThreadCmd `cmd:"" help:"Show the recent exchange thread with a friend."`
	Friend struct {
		Add  cli.FriendAddCmd  `cmd:"" help:"Add a friend."`
		List cli.FriendListCmd `cmd:"" help:"List friends."`
	} `cmd:"" help:"Manage friends."`
	Word struct {
		Delete cli.WordDeleteCmd `cmd:"" help:"Delete one of your words."`
	} `cmd:"" help:"Manage words."`
	Journal struct {
		List  cli.JournalListCmd  `cmd:"" help:"List journal entries."`
		Write cli.JournalWriteCmd `cmd:"" help:"Write or update a journal entry."`
	} `cmd:"" help:"Manage the daily journal."`
	Rollover cli.RolloverCmd `cmd:"" help:"Run a single midnight rollover check."`
	Watch    cli.WatchCmd    `cmd:"" help:"Run the rollover scheduler in the foreground."`
	Me       cli.MeCmd       `cmd:"" help:"Show or update your identity."`
	Top      cli.TopCmd      `cmd:"" help:"Show today's most sent words."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Check storage health."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("oneword"),
		kong.Description("One word a day, exchanged with the people you care about"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Determine storage type based on extension
	var store storage.Provider
	if len(CLI.Config) > 5 && CLI.Config[len(CLI.Config)-5:] == ".json" {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	clk := clock.System{}
	appCtx := &cli.Context{
		Store:  store,
		Engine: exchange.New(store, clk),
		Clock:  clk,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
