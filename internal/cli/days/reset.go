package days

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/silentstreak/internal/cli"
)

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

// confirmReset is replaced in tests.
var confirmReset = func(count int) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Erase all %d recorded days?", count)).
		Description("This cannot be undone unless you restore a backup.").
		Affirmative("Erase").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	count := len(ctx.Store.Days())

	if !c.Yes {
		ok, err := confirmReset(count)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.ClearAll(); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	fmt.Printf("✓ Erased %d days\n", count)
	return nil
}
