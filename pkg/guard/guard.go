// pkg/guard/guard.go - detects and terminates running instances of the target
// executable before files are touched.

package guard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/retry"
	"github.com/shirou/gopsutil/v3/process"
)

// ErrStillRunning is returned when the target process survives the bounded
// termination poll.
var ErrStillRunning = errors.New("process still running after timeout")

// Process is one running process as seen by the guard.
type Process struct {
	PID  int32
	Name string
	Exe  string
}

// Lister enumerates running processes. The default implementation uses the
// OS process list; tests substitute a fake.
type Lister interface {
	List() ([]Process, error)
}

// Killer issues a forced termination request for a PID.
type Killer interface {
	Kill(pid int32) error
}

// Guard checks for and terminates running instances by image name.
type Guard struct {
	lister       Lister
	killer       Killer
	pollInterval time.Duration
	sleep        func(time.Duration)
}

// New returns a Guard backed by the real OS process list.
func New() *Guard {
	backend := &psBackend{}
	return NewWithBackend(backend, backend)
}

// NewWithBackend returns a Guard with injected process access, for tests.
func NewWithBackend(l Lister, k Killer) *Guard {
	return &Guard{
		lister:       l,
		killer:       k,
		pollInterval: 250 * time.Millisecond,
		sleep:        time.Sleep,
	}
}

// SetPollInterval overrides the exit-verification poll interval.
func (g *Guard) SetPollInterval(d time.Duration) { g.pollInterval = d }

// SetSleep overrides the sleep function, for deterministic tests.
func (g *Guard) SetSleep(fn func(time.Duration)) { g.sleep = fn }

// IsRunning reports whether a process matching name is currently running.
// Matching is case-insensitive: a full path matches the executable path, a
// name ending in .exe matches the image name exactly, and a bare name matches
// with or without the .exe suffix.
func (g *Guard) IsRunning(name string) bool {
	return len(g.findAll(name)) > 0
}

// findAll returns every process matching name.
func (g *Guard) findAll(name string) []Process {
	procs, err := g.lister.List()
	if err != nil {
		logging.Error("Failed to get process list", "error", err)
		return nil
	}

	cleanName := strings.ToLower(name)
	var matches []Process
	for _, proc := range procs {
		procName := strings.ToLower(proc.Name)
		switch {
		case strings.HasPrefix(cleanName, "/") || strings.Contains(cleanName, `:\`):
			if strings.EqualFold(proc.Exe, name) {
				matches = append(matches, proc)
			}
		case strings.HasSuffix(cleanName, ".exe"):
			if procName == cleanName {
				matches = append(matches, proc)
			}
		default:
			if procName == cleanName || procName == cleanName+".exe" {
				matches = append(matches, proc)
			}
		}
	}
	return matches
}

// Terminate forcibly terminates every process matching name, then polls the
// process list until the name is gone or timeout elapses. The exit is
// verified rather than assumed: file removal right after a kill request races
// against the dying process's file locks otherwise.
func (g *Guard) Terminate(name string, timeout time.Duration) error {
	matches := g.findAll(name)
	if len(matches) == 0 {
		logging.Debug("No running instance to terminate", "process", name)
		return nil
	}

	for _, proc := range matches {
		logging.Info("Terminating running instance", "process", proc.Name, "pid", proc.PID)
		if err := g.killer.Kill(proc.PID); err != nil {
			logging.Warn("Termination request failed", "pid", proc.PID, "error", err)
		}
	}

	attempts := int(timeout/g.pollInterval) + 1
	err := retry.Do(retry.Config{
		MaxAttempts: attempts,
		Interval:    g.pollInterval,
		Sleep:       g.sleep,
	}, func() error {
		if g.IsRunning(name) {
			return fmt.Errorf("%s still has a running instance", name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStillRunning, name)
	}

	logging.Info("Process exit confirmed", "process", name)
	return nil
}

// psBackend implements Lister and Killer over the OS process table.
type psBackend struct{}

func (*psBackend) List() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		exe, _ := p.Exe()
		out = append(out, Process{PID: p.Pid, Name: name, Exe: exe})
	}
	return out, nil
}

func (*psBackend) Kill(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
