package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// InstanceLock prevents two bot processes from running against the same token.
// Tracked messages live in memory only, so a second instance would post duplicate summaries.
type InstanceLock struct {
	lockFile *flock.Flock
	lockPath string
}

// DefaultLockPath returns <tmp>/starrycafebot/bot.lock
func DefaultLockPath() string {
	return filepath.Join(os.TempDir(), "starrycafebot", "bot.lock")
}

// NewInstanceLock creates the lock directory if needed; the lock is not taken yet
func NewInstanceLock(lockPath string) (*InstanceLock, error) {
	if lockPath == "" {
		lockPath = DefaultLockPath()
	}

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	return &InstanceLock{
		lockFile: flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// TryLock attempts to acquire the instance lock
// Returns nil if successful, error if lock is already held or other error occurs
func (l *InstanceLock) TryLock() error {
	locked, err := l.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another bot instance is already running (lock: %s)", l.lockPath)
	}

	return nil
}

// Unlock releases the instance lock and removes the lock file
func (l *InstanceLock) Unlock() error {
	if l.lockFile == nil {
		return nil
	}

	if err := l.lockFile.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock: %w", err)
	}

	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	return nil
}

func (l *InstanceLock) Path() string {
	return l.lockPath
}
