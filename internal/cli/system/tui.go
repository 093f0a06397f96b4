package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Location, ctx.WeekStart), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
