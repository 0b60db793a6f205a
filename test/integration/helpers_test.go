//go:build integration

package integration

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
	"github.com/eliteGoblin/focusd/glicpatch/internal/infra"
	"github.com/eliteGoblin/focusd/glicpatch/internal/patcher"
	"github.com/eliteGoblin/focusd/glicpatch/internal/policy"
	"github.com/eliteGoblin/focusd/glicpatch/internal/usecase"
	"github.com/eliteGoblin/focusd/glicpatch/test/fixtures"
)

// stubChrome is a ProcessControl whose browser exits on any stop request.
type stubChrome struct {
	running  bool
	requests int
}

func (s *stubChrome) Exists(string) (bool, error)      { return s.running, nil }
func (s *stubChrome) ImageListed(string) (bool, error) { return s.running, nil }

func (s *stubChrome) FindPIDs([]string) ([]int, error) {
	if s.running {
		return []int{31337}, nil
	}
	return nil, nil
}

func (s *stubChrome) Signal([]int, domain.Signal) error { return s.stop() }
func (s *stubChrome) QuitApp(string) error              { return s.stop() }
func (s *stubChrome) KillImage(string) error            { return s.stop() }

func (s *stubChrome) stop() error {
	s.requests++
	s.running = false
	return nil
}

// workflow wires the same components the CLI does for one fake profile.
type workflow struct {
	configPath string
	unlocker   domain.Unlocker
}

func newWorkflow(
	profile *fixtures.FakeChromeProfile,
	control domain.ProcessControl,
	config usecase.TerminatorConfig,
) (*workflow, error) {
	logger := zap.NewNop()
	chrome := policy.NewChromePolicyWithEnv(profile.Env())

	configPath, err := chrome.ConfigPath(profile.OS)
	if err != nil {
		return nil, err
	}
	query, err := chrome.ProcessQuery(profile.OS)
	if err != nil {
		return nil, err
	}

	fs := infra.NewFileSystemManager()
	monitor := usecase.NewBrowserMonitor(profile.OS, query, control, logger)
	terminator := usecase.NewBrowserTerminator(config, profile.OS, query, control, monitor, logger)

	return &workflow{
		configPath: configPath,
		unlocker: usecase.NewUnlocker(
			monitor,
			terminator,
			infra.NewBackupManager(fs, logger),
			fs,
			patcher.New(),
			logger,
		),
	}, nil
}

func (w *workflow) patch(kill bool) (*domain.PatchReport, error) {
	if err := w.unlocker.EnsureNotRunning(kill); err != nil {
		return nil, err
	}
	return w.unlocker.Patch(w.configPath)
}

func (w *workflow) restore(kill bool) error {
	if err := w.unlocker.EnsureNotRunning(kill); err != nil {
		return err
	}
	return w.unlocker.Restore(w.configPath)
}
