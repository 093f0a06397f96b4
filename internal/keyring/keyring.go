// Package keyring keeps the PostgreSQL connection string used by the
// "keyring" store target in the OS credential store.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/silentstreak/internal/constants"
)

var (
	ErrNotFound           = errors.New("no connection string stored in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrEmpty              = errors.New("connection string cannot be empty")
)

// Status describes the keyring entry as seen by the current process.
type Status struct {
	Available bool
	Stored    bool
	// Err holds the backend error when Available is false.
	Err error
}

func lookup() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	switch {
	case err == nil:
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
}

// GetConnectionString returns the stored connection string.
func GetConnectionString() (string, error) {
	return lookup()
}

// SetConnectionString stores connStr with surrounding whitespace removed.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return ErrEmpty
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
}

// CheckStatus reads the entry once. A missing entry still means the
// keyring itself works.
func CheckStatus() Status {
	_, err := lookup()
	switch {
	case err == nil:
		return Status{Available: true, Stored: true}
	case errors.Is(err, ErrNotFound):
		return Status{Available: true}
	default:
		return Status{Err: err}
	}
}
