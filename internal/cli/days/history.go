package days

import (
	"fmt"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/render"
	"github.com/julianstephens/silentstreak/internal/streak"
)

type HistoryCmd struct {
	Silent bool `help:"Only show silent days." short:"s"`
	Limit  int  `help:"Maximum number of days to show (0 for all)." default:"${log_limit}"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	records := streak.History(ctx.Store.Days(), c.Silent)
	if len(records) == 0 {
		fmt.Println("No days recorded yet.")
		return nil
	}

	total := len(records)
	if c.Limit > 0 && len(records) > c.Limit {
		records = records[:c.Limit]
	}

	for _, d := range records {
		fmt.Println(render.HistoryLine(d, ctx.Location))
	}
	if len(records) < total {
		fmt.Printf("\n%d of %d days shown\n", len(records), total)
	}
	return nil
}
