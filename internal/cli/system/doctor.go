package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/silentstreak/internal/backup"
	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/keyring"
	"github.com/julianstephens/silentstreak/internal/lock"
	"github.com/julianstephens/silentstreak/internal/storage"
	"github.com/julianstephens/silentstreak/internal/utils"
)

// errSkipped marks a check that does not apply to the current backend.
var errSkipped = errors.New("not applicable")

type check struct {
	name    string
	run     func(*cli.Context) error
	warning bool
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Day records", run: checkDayRecords, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Lockfile", run: checkLockfile, warning: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warning: true},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Provider.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	validator, ok := ctx.Provider.(storage.SchemaValidator)
	if !ok {
		return fmt.Errorf("%w: backend has no schema", errSkipped)
	}
	return validator.ValidateSchema()
}

func checkDayRecords(ctx *cli.Context) error {
	data, err := ctx.Provider.ReadSlot(constants.SilenceDaysSlot)
	if err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			return nil
		}
		return err
	}

	records, err := storage.DecodeDays(data)
	if err != nil {
		return fmt.Errorf("stored records cannot be decoded and will load as empty: %w", err)
	}

	now := ctx.Now()
	tomorrow := utils.AddDays(utils.StartOfDay(now, now.Location()), 1)
	seen := make(map[string]string, len(records))
	for _, r := range records {
		day := r.Day(now.Location())
		if other, dup := seen[day]; dup {
			return fmt.Errorf("records %s and %s share the day %s", other, r.ID, day)
		}
		seen[day] = r.ID
		if !r.Date.Before(tomorrow) {
			return fmt.Errorf("record %s is dated in the future (%s)", r.ID, day)
		}
		if r.ID == "" {
			return fmt.Errorf("record for %s has no id", day)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsFileBackend() {
		return fmt.Errorf("%w: backups cover file backends only", errSkipped)
	}
	mgr := backup.NewManager(ctx.Provider.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkLockfile(ctx *cli.Context) error {
	if !ctx.IsFileBackend() {
		return fmt.Errorf("%w: lockfile covers file backends only", errSkipped)
	}
	l := lock.New(ctx.Provider.GetConfigPath())
	if _, err := os.Stat(l.Path()); os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("lockfile present at %s; another silentstreak process may be running", l.Path())
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Location == nil {
		return errors.New("no timezone configured")
	}
	now := ctx.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	status := keyring.CheckStatus()
	if !status.Available {
		return fmt.Errorf("'keyring' targets will not work: %w", status.Err)
	}
	return nil
}
