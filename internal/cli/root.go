package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/silentstreak/internal/backup"
	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/keyring"
	"github.com/julianstephens/silentstreak/internal/logger"
	"github.com/julianstephens/silentstreak/internal/storage"
	"github.com/julianstephens/silentstreak/internal/storage/postgres"
	"github.com/julianstephens/silentstreak/internal/storage/sqlite"
	"github.com/julianstephens/silentstreak/internal/tracker"
	"github.com/julianstephens/silentstreak/internal/utils"
)

type Context struct {
	Provider  storage.Provider
	Store     *tracker.Store
	Location  *time.Location
	WeekStart time.Weekday
}

// Now returns the store's notion of the current instant.
func (c *Context) Now() time.Time {
	return c.Store.Now()
}

// IsFileBackend reports whether the provider stores data in a local file
// that can be backed up and locked.
func (c *Context) IsFileBackend() bool {
	return IsFilePath(c.Provider.GetConfigPath())
}

// PerformAutomaticBackup creates a backup for file backends and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsFileBackend() {
		return
	}
	mgr := backup.NewManager(c.Provider.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// IsFilePath reports whether target names a local store file.
func IsFilePath(target string) bool {
	return target != constants.KeyringTarget &&
		target != "postgresql" &&
		target != ":memory:" &&
		!postgres.IsConnString(target) &&
		!strings.Contains(target, "host=")
}

// OpenProvider selects a backend for target: "keyring" reads a PostgreSQL
// connection string from the OS keyring, postgres:// URLs and host= DSNs use
// PostgreSQL, *.json paths use the JSON file store, and anything else is a
// SQLite database path.
func OpenProvider(target string) (storage.Provider, error) {
	if target == constants.KeyringTarget {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no connection string found in keyring, use 'silentstreak keyring set' to store one")
			}
			return nil, err
		}
		// The keyring is encrypted, so embedded passwords are accepted here.
		if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	if postgres.IsConnString(target) || strings.Contains(target, "host=") {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use ~/.pgpass, PGPASSWORD, or 'silentstreak keyring set' instead", err)
			}
			return nil, err
		}
		return postgres.New(target), nil
	}

	path := kong.ExpandPath(target)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ParseDay resolves "today", "yesterday", or a YYYY-MM-DD date relative to now.
func ParseDay(s string, now time.Time) (time.Time, error) {
	loc := now.Location()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return utils.StartOfDay(now, loc), nil
	case "yesterday":
		return utils.AddDays(utils.StartOfDay(now, loc), -1), nil
	}
	day, err := utils.ParseDateInLocation(strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD, today, or yesterday", s)
	}
	return day, nil
}
