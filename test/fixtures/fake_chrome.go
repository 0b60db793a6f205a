// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"os"
	"path/filepath"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// DefaultLocalState is a trimmed Local State with all three Gemini fields
// in their locked-down form.
const DefaultLocalState = `{
  "browser": {
    "enabled_labs_experiments": [],
    "last_redirect_origin": ""
  },
  "is_glic_eligible": false,
  "profile": {
    "info_cache": {
      "Default": {
        "name": "Person 1",
        "variations_country": "cn"
      }
    }
  },
  "user_experience_metrics": {
    "client_id2": "8b5e6f1c-0000-4000-8000-000000000000",
    "low_entropy_source3": 4321
  },
  "variations_country": "cn",
  "variations_permanent_consistency_country": [
    "120.0.6099.109",
    "cn"
  ]
}`

// FakeChromeProfile creates a Chrome user-data layout under a fake home
// (or LOCALAPPDATA on Windows).
type FakeChromeProfile struct {
	BaseDir string
	OS      domain.OSKind
}

// NewFakeChromeProfile creates a new fake profile generator.
func NewFakeChromeProfile(baseDir string, kind domain.OSKind) *FakeChromeProfile {
	return &FakeChromeProfile{BaseDir: baseDir, OS: kind}
}

// Dir returns the user-data directory holding Local State.
func (f *FakeChromeProfile) Dir() string {
	switch f.OS {
	case domain.OSMacOS:
		return filepath.Join(f.BaseDir, "Library", "Application Support", "Google", "Chrome")
	case domain.OSWindows:
		return filepath.Join(f.BaseDir, "Google", "Chrome", "User Data")
	default:
		return filepath.Join(f.BaseDir, ".config", "google-chrome")
	}
}

// LocalStatePath returns the path of the Local State file.
func (f *FakeChromeProfile) LocalStatePath() string {
	return filepath.Join(f.Dir(), "Local State")
}

// BackupPath returns the path the tool writes its backup to.
func (f *FakeChromeProfile) BackupPath() string {
	return f.LocalStatePath() + ".bak"
}

// Create writes DefaultLocalState.
func (f *FakeChromeProfile) Create() error {
	return f.CreateWith(DefaultLocalState)
}

// CreateWith writes content as Local State, creating parent directories.
func (f *FakeChromeProfile) CreateWith(content string) error {
	if err := os.MkdirAll(filepath.Join(f.Dir(), "Default"), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.LocalStatePath(), []byte(content), 0600)
}

// Read returns the current Local State content.
func (f *FakeChromeProfile) Read() (string, error) {
	data, err := os.ReadFile(f.LocalStatePath())
	return string(data), err
}

// ReadBackup returns the backup content.
func (f *FakeChromeProfile) ReadBackup() (string, error) {
	data, err := os.ReadFile(f.BackupPath())
	return string(data), err
}

// BackupExists reports whether a backup has been written.
func (f *FakeChromeProfile) BackupExists() bool {
	_, err := os.Stat(f.BackupPath())
	return err == nil
}

// Env returns an environment lookup resolving HOME and LOCALAPPDATA to BaseDir.
func (f *FakeChromeProfile) Env() func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "HOME", "LOCALAPPDATA":
			return f.BaseDir, true
		}
		return "", false
	}
}

// Cleanup removes the profile directory tree.
func (f *FakeChromeProfile) Cleanup() error {
	return os.RemoveAll(f.Dir())
}
