package usecase

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// UnlockerImpl implements domain.Unlocker.
type UnlockerImpl struct {
	monitor    domain.ProcessMonitor
	terminator domain.ProcessTerminator
	backups    domain.BackupManager
	fsManager  domain.FileSystemManager
	patcher    domain.Patcher
	logger     *zap.Logger
}

// NewUnlocker creates the patch/restore orchestrator.
func NewUnlocker(
	monitor domain.ProcessMonitor,
	terminator domain.ProcessTerminator,
	backups domain.BackupManager,
	fs domain.FileSystemManager,
	patcher domain.Patcher,
	logger *zap.Logger,
) domain.Unlocker {
	return &UnlockerImpl{
		monitor:    monitor,
		terminator: terminator,
		backups:    backups,
		fsManager:  fs,
		patcher:    patcher,
		logger:     logger,
	}
}

// EnsureNotRunning is the gate in front of every file access.
func (u *UnlockerImpl) EnsureNotRunning(kill bool) error {
	running, err := u.monitor.IsRunning()
	if err != nil {
		return err
	}
	if !running {
		u.logger.Info("Chrome is not running")
		return nil
	}

	if !kill {
		u.logger.Error("Chrome is running, close it first or use --kill-chrome")
		return domain.ErrChromeRunning
	}

	u.logger.Info("Chrome is running, attempting to close")
	outcome, err := u.terminator.Stop()
	if err != nil {
		if outcome != nil {
			u.logger.Error("failed to close Chrome",
				zap.String("state", string(outcome.FinalState)),
				zap.Int("attempts", outcome.Attempts),
				zap.Error(err))
		}
		return err
	}

	running, err = u.monitor.IsRunning()
	if err != nil {
		return err
	}
	if running {
		u.logger.Error("Chrome is still running, cannot continue")
		return domain.ErrChromeStillRunning
	}

	u.logger.Info("Chrome closed successfully",
		zap.Int("phases", outcome.Phases),
		zap.Int("attempts", outcome.Attempts))
	return nil
}

// Patch backs up configPath, rewrites it and returns what changed.
// Nothing is written if patching fails.
func (u *UnlockerImpl) Patch(configPath string) (*domain.PatchReport, error) {
	if !u.fsManager.Exists(configPath) {
		u.logger.Error("Chrome config file not found", zap.String("path", configPath))
		return nil, domain.ConfigNotFound(configPath)
	}

	if _, err := u.backups.Create(configPath); err != nil {
		return nil, err
	}

	u.logger.Info("reading config file", zap.String("path", configPath))
	content, err := u.fsManager.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	u.logger.Info("config file loaded", zap.Int("bytes", len(content)))

	u.logger.Info("applying patches")
	report, err := u.patcher.Apply(content)
	if err != nil {
		return nil, err
	}
	if !report.AnyChanged() {
		u.logger.Warn("no Gemini fields found in config")
	}

	u.logger.Info("writing config file", zap.String("path", configPath))
	if err := u.fsManager.WriteFile(configPath, []byte(report.Content)); err != nil {
		return nil, err
	}
	u.logger.Info("write completed",
		zap.Bool("is_glic_eligible", report.ChangedIsGlic),
		zap.Bool("variations_country", report.ChangedVariationsCountry),
		zap.Bool("variations_permanent_consistency_country", report.ChangedVariationsPermanentCountry))

	return report, nil
}

// Restore copies the backup over configPath.
func (u *UnlockerImpl) Restore(configPath string) error {
	_, err := u.backups.Restore(configPath)
	return err
}

// Ensure UnlockerImpl implements domain.Unlocker.
var _ domain.Unlocker = (*UnlockerImpl)(nil)
