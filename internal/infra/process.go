package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessControl using gopsutil.
// It needs no external tools, at the cost of approximating a graceful
// application quit with SIGTERM.
type ProcessManagerImpl struct {
	list   func() ([]*process.Process, error)
	signal func(pid int, sig domain.Signal) error
}

// NewProcessManager creates a gopsutil-backed process control.
func NewProcessManager() *ProcessManagerImpl {
	return &ProcessManagerImpl{list: process.Processes, signal: signalPID}
}

// Exists reports whether any process is named exactly name.
func (pm *ProcessManagerImpl) Exists(name string) (bool, error) {
	pids, err := pm.FindPIDs([]string{name})
	if err != nil {
		return false, err
	}
	return len(pids) > 0, nil
}

// ImageListed matches image names case-insensitively, as Windows does.
func (pm *ProcessManagerImpl) ImageListed(image string) (bool, error) {
	pids, err := pm.find(func(name string) bool {
		return strings.EqualFold(name, image)
	})
	if err != nil {
		return false, err
	}
	return len(pids) > 0, nil
}

// FindPIDs returns sorted, deduplicated pids of processes named exactly one of names.
func (pm *ProcessManagerImpl) FindPIDs(names []string) ([]int, error) {
	return pm.find(func(name string) bool {
		for _, n := range names {
			if name == n {
				return true
			}
		}
		return false
	})
}

// Signal terminates (TERM) or kills (KILL) each pid.
// A process that exited in the meantime counts as done.
func (pm *ProcessManagerImpl) Signal(pids []int, sig domain.Signal) error {
	var errs []error
	for _, pid := range pids {
		if err := pm.signal(pid, sig); err != nil && !processGone(err) {
			errs = append(errs, fmt.Errorf("pid %d: %w", pid, err))
		}
	}

	if len(errs) > 0 {
		return domain.CommandFailed(fmt.Sprintf("signal %s %v", sig, pids), errors.Join(errs...).Error())
	}
	return nil
}

func signalPID(pid int, sig domain.Signal) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	if sig == domain.SignalKill {
		return p.Kill()
	}
	return p.Terminate()
}

// processGone reports errors meaning the pid no longer exists.
func processGone(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, os.ErrProcessDone) ||
		errors.Is(err, syscall.ESRCH)
}

// QuitApp sends SIGTERM to the application's processes.
func (pm *ProcessManagerImpl) QuitApp(appName string) error {
	pids, err := pm.FindPIDs([]string{appName})
	if err != nil {
		return err
	}
	return pm.Signal(pids, domain.SignalTerm)
}

// KillImage kills every process of the image.
func (pm *ProcessManagerImpl) KillImage(image string) error {
	pids, err := pm.find(func(name string) bool {
		return strings.EqualFold(name, image)
	})
	if err != nil {
		return err
	}
	return pm.Signal(pids, domain.SignalKill)
}

func (pm *ProcessManagerImpl) find(match func(name string) bool) ([]int, error) {
	procs, err := pm.list()
	if err != nil {
		return nil, domain.CommandFailed("list processes", err.Error())
	}

	seen := make(map[int]struct{})
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if match(name) {
			seen[int(p.Pid)] = struct{}{}
		}
	}
	return sortedPIDs(seen), nil
}

// Ensure ProcessManagerImpl implements domain.ProcessControl.
var _ domain.ProcessControl = (*ProcessManagerImpl)(nil)
