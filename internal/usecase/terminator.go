package usecase

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// StopAction is the platform request issued when entering a stop phase.
type StopAction string

const (
	ActionQuitApp    StopAction = "quit_app"    // macOS: ask the app to quit
	ActionKillImage  StopAction = "kill_image"  // Windows: force-terminate the image
	ActionSignalTerm StopAction = "signal_term" // Linux: TERM to the pid set
	ActionSignalKill StopAction = "signal_kill" // Linux: KILL to the pid set
)

// StopPhase is one row of a stop plan: the action to issue, the states
// entered while issuing and waiting, and the state reached on timeout.
type StopPhase struct {
	Action    StopAction
	Requested domain.StopState
	Waiting   domain.StopState
	OnTimeout domain.StopState
}

// StopPlan returns the escalation table for an OS.
// Only Linux has a second, stronger phase.
func StopPlan(os domain.OSKind) ([]StopPhase, error) {
	switch os {
	case domain.OSMacOS:
		return []StopPhase{
			{ActionQuitApp, domain.StateStopRequested, domain.StateWaiting, domain.StateStillRunning},
		}, nil
	case domain.OSWindows:
		return []StopPhase{
			{ActionKillImage, domain.StateStopRequested, domain.StateWaiting, domain.StateStillRunning},
		}, nil
	case domain.OSLinux:
		return []StopPhase{
			{ActionSignalTerm, domain.StateStopRequested, domain.StateWaiting, domain.StateStillRunning},
			{ActionSignalKill, domain.StateEscalatedStopRequested, domain.StateWaitingEscalated, domain.StateFailed},
		}, nil
	default:
		return nil, domain.UnsupportedOS(string(os))
	}
}

// TerminatorConfig holds the polling budget for each wait.
type TerminatorConfig struct {
	PollInterval time.Duration // Sleep between monitor checks
	Timeout      time.Duration // Total wait budget per phase
}

// DefaultTerminatorConfig returns the default wait budget: 300ms polls for 3s.
func DefaultTerminatorConfig() TerminatorConfig {
	return TerminatorConfig{
		PollInterval: 300 * time.Millisecond,
		Timeout:      3 * time.Second,
	}
}

// BrowserTerminator implements domain.ProcessTerminator.
type BrowserTerminator struct {
	config  TerminatorConfig
	os      domain.OSKind
	query   domain.ProcessQuery
	control domain.ProcessControl
	monitor domain.ProcessMonitor
	logger  *zap.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// NewBrowserTerminator creates a terminator that polls monitor between actions.
func NewBrowserTerminator(
	config TerminatorConfig,
	os domain.OSKind,
	query domain.ProcessQuery,
	control domain.ProcessControl,
	monitor domain.ProcessMonitor,
	logger *zap.Logger,
) *BrowserTerminator {
	return &BrowserTerminator{
		config:  config,
		os:      os,
		query:   query,
		control: control,
		monitor: monitor,
		logger:  logger,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// WithClock replaces the time source and sleeper (for testing).
func (t *BrowserTerminator) WithClock(now func() time.Time, sleep func(time.Duration)) *BrowserTerminator {
	t.now = now
	t.sleep = sleep
	return t
}

// Stop runs the stop plan for the OS. It must only be called while the
// monitor reports the browser running.
//
// A failing action is a command error; a browser that outlives every wait
// is domain.ErrChromeStillRunning.
func (t *BrowserTerminator) Stop() (*domain.StopOutcome, error) {
	plan, err := StopPlan(t.os)
	if err != nil {
		return nil, err
	}

	outcome := &domain.StopOutcome{}
	enter(outcome, domain.StateRunning)

	for i, phase := range plan {
		if i > 0 {
			running, err := t.monitor.IsRunning()
			if err != nil {
				return outcome, err
			}
			if !running {
				enter(outcome, domain.StateStopped)
				return outcome, nil
			}
			t.logger.Warn("browser still running, escalating",
				zap.String("action", string(phase.Action)))
		}

		enter(outcome, phase.Requested)
		issued, err := t.issue(phase.Action, outcome)
		if err != nil {
			return outcome, err
		}
		outcome.Phases++
		if !issued {
			t.logger.Info("no browser processes left to signal")
			enter(outcome, domain.StateStopped)
			return outcome, nil
		}

		enter(outcome, phase.Waiting)
		stopped, attempts, err := t.waitForStop()
		outcome.Attempts += attempts
		if err != nil {
			return outcome, err
		}
		if stopped {
			enter(outcome, domain.StateStopped)
			return outcome, nil
		}

		t.logger.Warn("wait for browser stop timed out",
			zap.Duration("timeout", t.config.Timeout),
			zap.Int("attempts", attempts))
		enter(outcome, phase.OnTimeout)
	}

	running, err := t.monitor.IsRunning()
	if err != nil {
		return outcome, err
	}
	if running {
		return outcome, domain.ErrChromeStillRunning
	}
	enter(outcome, domain.StateStopped)
	return outcome, nil
}

// issue sends the phase's request. It returns false when a pid-set action
// found nothing to signal.
func (t *BrowserTerminator) issue(action StopAction, outcome *domain.StopOutcome) (bool, error) {
	switch action {
	case ActionQuitApp:
		t.logger.Info("asking browser to quit", zap.String("app", t.query.AppName))
		return true, t.control.QuitApp(t.query.AppName)

	case ActionKillImage:
		t.logger.Info("force-terminating browser", zap.String("image", t.query.Image))
		return true, t.control.KillImage(t.query.Image)

	case ActionSignalTerm, ActionSignalKill:
		sig := domain.SignalTerm
		if action == ActionSignalKill {
			sig = domain.SignalKill
		}

		pids, err := t.control.FindPIDs(t.query.Names)
		if err != nil {
			return false, err
		}
		if len(pids) == 0 {
			return false, nil
		}

		t.logger.Info("signaling browser processes",
			zap.String("signal", string(sig)),
			zap.Ints("pids", pids))
		if err := t.control.Signal(pids, sig); err != nil {
			return false, err
		}
		outcome.SignaledPIDs = mergePIDs(outcome.SignaledPIDs, pids)
		return true, nil

	default:
		return false, domain.UnsupportedOS(string(t.os))
	}
}

// waitForStop polls the monitor until it reports stopped or the budget runs out.
func (t *BrowserTerminator) waitForStop() (stopped bool, attempts int, err error) {
	start := t.now()

	for t.now().Sub(start) < t.config.Timeout {
		attempts++
		running, err := t.monitor.IsRunning()
		if err != nil {
			return false, attempts, err
		}
		if !running {
			t.logger.Debug("browser stopped", zap.Int("attempt", attempts))
			return true, attempts, nil
		}
		t.sleep(t.config.PollInterval)
	}

	return false, attempts, nil
}

func enter(outcome *domain.StopOutcome, state domain.StopState) {
	outcome.FinalState = state
	outcome.Trace = append(outcome.Trace, state)
}

func mergePIDs(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	merged := make([]int, 0, len(a)+len(b))
	for _, pid := range append(append([]int{}, a...), b...) {
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		merged = append(merged, pid)
	}
	sort.Ints(merged)
	return merged
}

// Ensure BrowserTerminator implements domain.ProcessTerminator.
var _ domain.ProcessTerminator = (*BrowserTerminator)(nil)
