package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/oneword/internal/rollover"
)

type RolloverCmd struct{}

func (c *RolloverCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	sched := rollover.New(ctx.Store, ctx.Engine, ctx.Clock, me.ID, 0)
	if err := sched.RunCheck(context.Background()); err != nil {
		return err
	}

	last, err := ctx.Store.GetLastProcessedDay(me.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Rollover check complete (processed through %s)\n", last)
	return nil
}

type WatchCmd struct {
	Interval time.Duration `short:"i" help:"Check interval." default:"60s"`
}

func (c *WatchCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching for midnight rollover every %s (ctrl-c to stop)\n", c.Interval)
	sched := rollover.New(ctx.Store, ctx.Engine, ctx.Clock, me.ID, c.Interval)
	sched.Run(runCtx, func(err error) {
		fmt.Fprintf(os.Stderr, "rollover check failed: %v\n", err)
	})

	fmt.Println("Stopped.")
	return nil
}
