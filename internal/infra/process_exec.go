package infra

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// ExecProcessControl implements domain.ProcessControl with the stock OS tools:
// pgrep and kill on Unix, osascript on macOS, tasklist and taskkill on Windows.
type ExecProcessControl struct {
	runner CommandRunner
}

// NewExecProcessControl creates a process control backed by real commands.
func NewExecProcessControl() *ExecProcessControl {
	return &ExecProcessControl{runner: &RealCommandRunner{}}
}

// NewExecProcessControlWithRunner creates a process control with an injectable runner (for testing).
func NewExecProcessControlWithRunner(runner CommandRunner) *ExecProcessControl {
	return &ExecProcessControl{runner: runner}
}

// Exists runs `pgrep -x name`. Exit 0 means found, exit 1 means not found.
func (c *ExecProcessControl) Exists(name string) (bool, error) {
	args := []string{"-x", name}
	result, err := c.run("pgrep", args...)
	if err != nil {
		return false, err
	}

	switch result.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, domain.CommandFailed(commandLine("pgrep", args...), exitStatus(result))
	}
}

// ImageListed runs `tasklist /FI "IMAGENAME eq image"` and looks for the image in its output.
func (c *ExecProcessControl) ImageListed(image string) (bool, error) {
	args := []string{"/FI", "IMAGENAME eq " + image}
	result, err := c.run("tasklist", args...)
	if err != nil {
		return false, err
	}
	if result.ExitCode != 0 {
		return false, commandFailed(commandLine("tasklist", args...), result)
	}

	stdout := strings.ToLower(string(result.Stdout))
	return strings.Contains(stdout, strings.ToLower(image)), nil
}

// FindPIDs collects pids from `pgrep -x` for every name.
// Output that is not a pid is an error, not something to skip.
func (c *ExecProcessControl) FindPIDs(names []string) ([]int, error) {
	seen := make(map[int]struct{})

	for _, name := range names {
		args := []string{"-x", name}
		command := commandLine("pgrep", args...)
		result, err := c.run("pgrep", args...)
		if err != nil {
			return nil, err
		}

		switch result.ExitCode {
		case 0:
			for _, item := range strings.Fields(string(result.Stdout)) {
				pid, err := strconv.Atoi(item)
				if err != nil {
					return nil, domain.CommandFailed(command, "cannot parse pid: "+item)
				}
				seen[pid] = struct{}{}
			}
		case 1:
			// No match for this name
		default:
			return nil, domain.CommandFailed(command, exitStatus(result))
		}
	}

	return sortedPIDs(seen), nil
}

// Signal runs a single `kill -SIG pid...` for the whole batch.
func (c *ExecProcessControl) Signal(pids []int, sig domain.Signal) error {
	if len(pids) == 0 {
		return nil
	}

	args := make([]string, 0, len(pids)+1)
	args = append(args, "-"+string(sig))
	for _, pid := range pids {
		args = append(args, strconv.Itoa(pid))
	}
	return c.runChecked("kill", args...)
}

// QuitApp asks macOS to quit the application through AppleScript.
func (c *ExecProcessControl) QuitApp(appName string) error {
	return c.runChecked("osascript", "-e", fmt.Sprintf("quit app %q", appName))
}

// KillImage force-terminates every process of the image with taskkill.
func (c *ExecProcessControl) KillImage(image string) error {
	return c.runChecked("taskkill", "/IM", image, "/F")
}

// run starts a command; failing to start it is an I/O error.
func (c *ExecProcessControl) run(name string, args ...string) (*CommandResult, error) {
	result, err := c.runner.Run(name, args...)
	if err != nil {
		return nil, domain.IOError("exec", commandLine(name, args...), err)
	}
	return result, nil
}

// runChecked runs a command that must exit 0.
func (c *ExecProcessControl) runChecked(name string, args ...string) error {
	result, err := c.run(name, args...)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return commandFailed(commandLine(name, args...), result)
	}
	return nil
}

func sortedPIDs(set map[int]struct{}) []int {
	pids := make([]int, 0, len(set))
	for pid := range set {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// Ensure ExecProcessControl implements domain.ProcessControl.
var _ domain.ProcessControl = (*ExecProcessControl)(nil)
