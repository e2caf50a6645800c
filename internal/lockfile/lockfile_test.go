package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int { return m.pid }
func (m *mockProcess) PPid() int { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withProcesses(t *testing.T, pid int, procs map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc = oldFind
		getpidFunc = oldPid
	})
	getpidFunc = func() int { return pid }
	findProcessFunc = func(p int) (ps.Process, error) {
		exe, ok := procs[p]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: p, executable: exe}, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	withProcesses(t, 4242, map[int]string{4242: "sanctuary"})
	path := Path(t.TempDir())

	lock, err := Acquire(path, ":5000")
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}

	info, running, err := Status(path)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if !running || info.PID != 4242 || info.Addr != ":5000" {
		t.Errorf("unexpected status: %+v running=%v", info, running)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file still exists after Release()")
	}
}

func TestAcquireHeldLock(t *testing.T) {
	withProcesses(t, 100, map[int]string{100: "sanctuary"})
	path := Path(t.TempDir())
	if _, err := Acquire(path, ":5000"); err != nil {
		t.Fatalf("first Acquire() failed: %v", err)
	}

	getpidFunc = func() int { return 200 }
	_, err := Acquire(path, ":5001")
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestAcquireTakesOverStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		procs   map[int]string
	}{
		{"dead process", "100|:5000|2026-03-11T10:00:00Z\n", map[int]string{}},
		{"pid reused by another program", "100|:5000|2026-03-11T10:00:00Z\n", map[int]string{100: "bash"}},
		{"malformed", "garbage", map[int]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			procs := map[int]string{300: "sanctuary"}
			for pid, exe := range tt.procs {
				procs[pid] = exe
			}
			withProcesses(t, 300, procs)

			path := Path(t.TempDir())
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			if _, err := Acquire(path, ":5000"); err != nil {
				t.Fatalf("Acquire() failed: %v", err)
			}
			info, err := Read(path)
			if err != nil {
				t.Fatalf("Read() failed: %v", err)
			}
			if info.PID != 300 {
				t.Errorf("expected pid 300, got %d", info.PID)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	withProcesses(t, 100, map[int]string{100: "sanctuary"})
	path := filepath.Join(t.TempDir(), "server.lock")
	lock, err := Acquire(path, ":5000")
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("999|:5001|2026-03-11T10:00:00Z\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("Release() removed a lock owned by another process")
	}
}

func TestStatusMissing(t *testing.T) {
	_, running, err := Status(filepath.Join(t.TempDir(), "none.lock"))
	if err != nil || running {
		t.Errorf("expected not running without error, got running=%v err=%v", running, err)
	}
}
