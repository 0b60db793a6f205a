package infra

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// BackupSuffix is appended to the config file name to form its backup.
const BackupSuffix = ".bak"

// BackupManagerImpl keeps a verified sibling copy of the Local State file.
type BackupManagerImpl struct {
	fs     domain.FileSystemManager
	logger *zap.Logger
}

// NewBackupManager creates a new backup manager.
func NewBackupManager(fs domain.FileSystemManager, logger *zap.Logger) domain.BackupManager {
	return &BackupManagerImpl{fs: fs, logger: logger}
}

// BackupPath returns <name>.bak in the config file's directory.
func (bm *BackupManagerImpl) BackupPath(configPath string) (string, error) {
	name := filepath.Base(configPath)
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", domain.InvalidPath(configPath)
	}
	return filepath.Join(filepath.Dir(configPath), name+BackupSuffix), nil
}

// Create copies the config to its backup and checks the copy's SHA256.
func (bm *BackupManagerImpl) Create(configPath string) (string, error) {
	backupPath, err := bm.BackupPath(configPath)
	if err != nil {
		return "", err
	}
	if !bm.fs.Exists(configPath) {
		return "", domain.ConfigNotFound(configPath)
	}

	bm.logger.Info("creating backup", zap.String("path", backupPath))
	if err := bm.fs.Copy(configPath, backupPath); err != nil {
		return "", err
	}

	if err := bm.verify(configPath, backupPath); err != nil {
		return "", err
	}

	bm.logger.Info("backup completed", zap.String("path", backupPath))
	return backupPath, nil
}

// Restore copies the backup over the config.
func (bm *BackupManagerImpl) Restore(configPath string) (string, error) {
	backupPath, err := bm.BackupPath(configPath)
	if err != nil {
		return "", err
	}
	if !bm.fs.Exists(backupPath) {
		bm.logger.Error("backup file not found", zap.String("path", backupPath))
		return "", domain.BackupNotFound(backupPath)
	}

	bm.logger.Info("restoring from backup",
		zap.String("backup", backupPath),
		zap.String("config", configPath))
	if err := bm.fs.Copy(backupPath, configPath); err != nil {
		return "", err
	}

	bm.logger.Info("restore completed")
	return backupPath, nil
}

// verify compares SHA256 of the original and its backup.
func (bm *BackupManagerImpl) verify(configPath, backupPath string) error {
	want, err := bm.fs.Checksum(configPath)
	if err != nil {
		return err
	}
	got, err := bm.fs.Checksum(backupPath)
	if err != nil {
		return err
	}

	if got != want {
		bm.logger.Error("backup checksum mismatch",
			zap.String("expected", want),
			zap.String("actual", got))
		return &domain.AppError{Kind: domain.KindIO, Message: "backup verification failed: " + backupPath}
	}

	bm.logger.Debug("backup verified", zap.String("sha256", want))
	return nil
}

// Ensure BackupManagerImpl implements domain.BackupManager.
var _ domain.BackupManager = (*BackupManagerImpl)(nil)
