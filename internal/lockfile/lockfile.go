// Package lockfile keeps two servers from running against the same database.
// The lock is a small text file holding "pid|addr|started" that is taken over
// when the recorded process is gone.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

var (
	ErrLocked    = errors.New("another sanctuary server is running")
	ErrMalformed = errors.New("lockfile is malformed")
)

// Info is the content of a lock file
type Info struct {
	PID       int
	Addr      string
	StartedAt time.Time
}

// Lock is a held server lock
type Lock struct {
	path string
	pid  int
}

// Path returns the lock file location for a data directory
func Path(dataDir string) string {
	return filepath.Join(dataDir, constants.ServerLockfileName)
}

// Read parses the lock file at path
func Read(path string) (Info, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Info{}, ErrMalformed
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Info{}, fmt.Errorf("%w: invalid process ID", ErrMalformed)
	}
	started, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return Info{}, fmt.Errorf("%w: invalid start time", ErrMalformed)
	}
	return Info{PID: pid, Addr: parts[1], StartedAt: started}, nil
}

// Running reports whether the process recorded in info is a live sanctuary process
func Running(info Info) bool {
	process, err := findProcessFunc(info.PID)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}

// Status reads the lock at path. A missing file is reported as not running
// without error.
func Status(path string) (Info, bool, error) {
	info, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, err
	}
	return info, Running(info), nil
}

// Acquire takes the lock for a server listening on addr. A lock left by a
// dead process, or one that cannot be parsed, is replaced.
func Acquire(path, addr string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	info, running, err := Status(path)
	switch {
	case running:
		return nil, fmt.Errorf("%w (pid %d on %s since %s)", ErrLocked, info.PID, info.Addr, info.StartedAt.Format(time.RFC3339))
	case err != nil || info.PID != 0:
		logger.Warn("Removing stale server lock", "path", path, "pid", info.PID, "error", err)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	pid := getpidFunc()
	line := fmt.Sprintf("%d|%s|%s\n", pid, addr, time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(line); err != nil {
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lock file if it still belongs to this process
func (l *Lock) Release() error {
	info, err := Read(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err == nil && info.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
