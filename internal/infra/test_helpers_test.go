package infra

import (
	"strings"
)

// fakeRunner is a test double for CommandRunner.
// Results are keyed by the full command line, e.g. "pgrep -x chrome".
type fakeRunner struct {
	results map[string]*CommandResult
	errs    map[string]error
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]*CommandResult),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) Run(name string, args ...string) (*CommandResult, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if res, ok := f.results[key]; ok {
		return res, nil
	}
	return &CommandResult{ExitCode: 1}, nil
}

func (f *fakeRunner) on(key string, exitCode int, stdout string) {
	f.results[key] = &CommandResult{ExitCode: exitCode, Stdout: []byte(stdout)}
}
