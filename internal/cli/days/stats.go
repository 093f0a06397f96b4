package days

import (
	"fmt"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/render"
)

const chartWidth = 30

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	summary := ctx.Store.Summary(ctx.WeekStart)

	fmt.Println(render.HeaderStyle.Render("Streaks"))
	fmt.Println(render.StreakLine(summary))
	fmt.Println()

	fmt.Println(render.HeaderStyle.Render("Achievements"))
	fmt.Println(render.Achievements(summary.Achievements))
	fmt.Println()

	fmt.Println(render.HeaderStyle.Render(fmt.Sprintf("Silent days per week (weeks start %s)", ctx.WeekStart)))
	fmt.Println(render.BarChart(render.WeeklyBars(summary.Weekly), chartWidth))
	fmt.Println()

	fmt.Println(render.HeaderStyle.Render("Hour of marking"))
	fmt.Println(render.BarChart(render.HourBars(summary.HourStats), chartWidth))
	return nil
}
