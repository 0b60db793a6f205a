package infra

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// CommandResult holds what a finished command produced.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int // -1 when the command was terminated by a signal
}

// Signaled reports whether the command died from a signal.
func (r *CommandResult) Signaled() bool {
	return r.ExitCode < 0
}

// CommandRunner abstracts command execution for testing.
// A non-zero exit is not an error; only failing to run the command is.
type CommandRunner interface {
	Run(name string, args ...string) (*CommandResult, error)
}

// RealCommandRunner executes real system commands.
type RealCommandRunner struct{}

// Run executes a command, waits for it and captures its output.
func (r *RealCommandRunner) Run(name string, args ...string) (*CommandResult, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil // Prevent any interactive prompts
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return nil, err
}

// commandLine renders a command for error messages, quoting arguments with spaces.
func commandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if strings.ContainsAny(a, " \t\"") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// commandFailed builds a command error from whatever the command printed,
// falling back to its exit status.
func commandFailed(command string, result *CommandResult) error {
	stdout := strings.TrimSpace(string(result.Stdout))
	stderr := strings.TrimSpace(string(result.Stderr))
	if stdout == "" && stderr == "" {
		return domain.CommandFailed(command, exitStatus(result))
	}
	return domain.CommandFailed(command, fmt.Sprintf("stdout: %s; stderr: %s", stdout, stderr))
}

func exitStatus(result *CommandResult) string {
	if result.Signaled() {
		return "terminated by signal"
	}
	return fmt.Sprintf("exit code %d", result.ExitCode)
}
