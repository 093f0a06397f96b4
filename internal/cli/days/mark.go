package days

import (
	"fmt"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/render"
)

type MarkCmd struct {
	Note   *string `help:"Attach a note to today's record." short:"n"`
	Missed bool    `help:"Record today as not silent."`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	note := models.NoNote()
	if c.Note != nil {
		note = models.NoteOf(*c.Note)
	}

	added, err := ctx.Store.RecordToday(!c.Missed, note)
	if err != nil {
		return fmt.Errorf("failed to mark today: %w", err)
	}
	if !added {
		fmt.Println("Today is already marked. Use 'silentstreak note today <text>' to change its note.")
		return nil
	}

	if c.Missed {
		fmt.Println("✓ Recorded today as missed")
	} else {
		fmt.Println("✓ Marked today as silent")
	}
	fmt.Println(render.StreakLine(ctx.Store.Summary(ctx.WeekStart)))
	return nil
}

type NoteCmd struct {
	Date string `arg:"" help:"Day to annotate: YYYY-MM-DD, today, or yesterday."`
	Text string `arg:"" help:"Note text. An empty string keeps an empty note."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Date, ctx.Now())
	if err != nil {
		return err
	}

	updated, err := ctx.Store.UpdateNote(day, c.Text)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if !updated {
		fmt.Printf("No record for %s, nothing changed.\n", day.Format("2006-01-02"))
		return nil
	}
	fmt.Printf("✓ Note saved for %s\n", day.Format("2006-01-02"))
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	summary := ctx.Store.Summary(ctx.WeekStart)

	if summary.MarkedToday {
		today := summary.LastSevenDays[len(summary.LastSevenDays)-1]
		fmt.Println(render.HistoryLine(today, ctx.Location))
	} else {
		fmt.Println("Today is not marked yet. Run 'silentstreak mark' when your day was silent.")
	}
	fmt.Println()
	fmt.Println(render.StreakLine(summary))
	fmt.Println()
	fmt.Println(render.WeekStrip(summary.LastSevenDays, ctx.Location))
	return nil
}
