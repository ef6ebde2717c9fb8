package cli

import "fmt"

type TopCmd struct {
	Limit int `short:"l" help:"Number of words to show." default:"10"`
}

func (c *TopCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	me, err := ctx.Me()
	if err != nil {
		return err
	}

	top, err := ctx.Engine.TopWordsToday(me.ID, c.Limit)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Println("No words sent today.")
		return nil
	}

	fmt.Println("Today's top words:")
	for _, wc := range top {
		fmt.Printf("  %-15s  %d\n", wc.Text, wc.Count)
	}
	return nil
}
