package infra

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// FileSystemManagerImpl implements domain.FileSystemManager.
type FileSystemManagerImpl struct{}

// NewFileSystemManager creates a new filesystem manager.
func NewFileSystemManager() domain.FileSystemManager {
	return &FileSystemManagerImpl{}
}

// Exists checks if a path exists.
func (fm *FileSystemManagerImpl) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile returns the file contents as text.
func (fm *FileSystemManagerImpl) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.IOError("read", path, err)
	}
	return string(data), nil
}

// WriteFile replaces path with data, keeping the existing permissions.
func (fm *FileSystemManagerImpl) WriteFile(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := writeAtomic(path, bytes.NewReader(data), perm); err != nil {
		return domain.IOError("write", path, err)
	}
	return nil
}

// Copy copies src over dst, keeping src's permissions.
func (fm *FileSystemManagerImpl) Copy(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return domain.IOError("copy", src+" -> "+dst, err)
	}
	return nil
}

// Checksum returns the hex SHA-256 of a file.
func (fm *FileSystemManagerImpl) Checksum(path string) (string, error) {
	sum, err := computeSHA256(path)
	if err != nil {
		return "", domain.IOError("checksum", path, err)
	}
	return sum, nil
}

// computeSHA256 calculates SHA256 hash of a file
func computeSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file from src to dst using atomic write pattern.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	return writeAtomic(dst, sourceFile, info.Mode().Perm())
}

// writeAtomic writes to a temp file in dst's directory, syncs, then renames
// it over dst.
func writeAtomic(dst string, r io.Reader, perm os.FileMode) error {
	dstDir := filepath.Dir(dst)
	tmpFile, err := os.CreateTemp(dstDir, ".glicpatch-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on any error
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return err
	}

	// Sync to disk before rename
	if err = tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err = os.Rename(tmpPath, dst); err != nil {
		return err
	}

	success = true
	return nil
}

// Ensure FileSystemManagerImpl implements domain.FileSystemManager.
var _ domain.FileSystemManager = (*FileSystemManagerImpl)(nil)
