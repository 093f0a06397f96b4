// Package lock provides a PID lockfile that keeps two silentstreak processes
// from writing the same store at once.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/logger"
)

var (
	ErrLocked  = errors.New("store is locked by another silentstreak process")
	ErrNotHeld = errors.New("lock is not held")

	findProcessFunc = ps.FindProcess
)

type FileLock struct {
	path       string
	maxRetries int
	retryDelay time.Duration

	mu   sync.Mutex
	held bool
}

// New returns a lock stored next to the given store path.
func New(storePath string) *FileLock {
	return &FileLock{
		path:       filepath.Join(filepath.Dir(storePath), constants.LockfileName),
		maxRetries: constants.LockMaxRetries,
		retryDelay: constants.LockRetryDelay,
	}
}

func (l *FileLock) Path() string {
	return l.path
}

// Lock creates the lockfile, reclaiming it when its owner is gone.
func (l *FileLock) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return nil
	}

	for attempt := 0; ; attempt++ {
		err := l.tryCreate()
		if err == nil {
			l.held = true
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create lockfile: %w", err)
		}

		if l.isStale() {
			logger.Warn("Removing stale lockfile", "path", l.path)
			if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove stale lockfile: %w", err)
			}
			continue
		}

		if attempt >= l.maxRetries {
			return ErrLocked
		}
		time.Sleep(l.retryDelay)
	}
}

func (l *FileLock) tryCreate() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
	cerr := f.Close()
	if werr != nil {
		os.Remove(l.path)
		return werr
	}
	return cerr
}

// isStale reports whether the lockfile is unreadable, malformed, or names a
// process that no longer exists.
func (l *FileLock) isStale() bool {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return os.IsNotExist(err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return true
	}
	if pid == os.Getpid() {
		return false
	}
	process, err := findProcessFunc(pid)
	return err != nil || process == nil
}

func (l *FileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return ErrNotHeld
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}
