package days

import (
	"fmt"
	"os"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/storage"
)

type ExportCmd struct {
	File string `arg:"" help:"Destination file, or - for stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Store.Export()
	if err != nil {
		return err
	}

	if c.File == "-" {
		_, err := fmt.Println(string(data))
		return err
	}
	if err := os.WriteFile(c.File, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✓ Exported %d days to %s\n", len(ctx.Store.Days()), c.File)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"File produced by 'silentstreak export'." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	records, err := storage.DecodeDays(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.File, err)
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Replace(records); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("✓ Imported %d days\n", len(records))
	return nil
}
