package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Erase existing data before initialization."`
	Source string `help:"Store path or connection string to copy day records from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	target := ctx.Provider.GetConfigPath()

	if c.Force && c.Source != "" {
		absTarget, errT := filepath.Abs(target)
		absSource, errS := filepath.Abs(c.Source)
		if errT == nil && errS == nil && absTarget == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", target)
		}
	}

	if c.Force && ctx.IsFileBackend() {
		if _, err := os.Stat(target); err == nil {
			if err := ctx.Provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		if !errors.Is(err, storage.ErrAlreadyInitialized) {
			return err
		}
		if err := ctx.Provider.Load(); err != nil {
			return err
		}
	}

	if c.Force && !ctx.IsFileBackend() {
		if err := ctx.Provider.DeleteSlot(constants.SilenceDaysSlot); err != nil {
			return fmt.Errorf("failed to clear existing records: %w", err)
		}
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	fmt.Printf("Initialized silentstreak storage at: %s\n", target)

	if c.Source != "" {
		fmt.Printf("Copying day records from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("  Migrated %d days\n", n)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	source, err := cli.OpenProvider(c.Source)
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	data, err := source.ReadSlot(constants.SilenceDaysSlot)
	if err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			return 0, nil
		}
		return 0, err
	}
	records, err := storage.DecodeDays(data)
	if err != nil {
		return 0, err
	}
	if err := ctx.Store.Replace(records); err != nil {
		return 0, err
	}
	return len(records), nil
}
