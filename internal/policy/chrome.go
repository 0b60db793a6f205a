package policy

import (
	"os"
	"path/filepath"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// Chrome process names.
const (
	ChromeProcessName      = "chrome"
	ChromeAltProcessName   = "google-chrome"
	ChromeMacAppName       = "Google Chrome"
	ChromeWindowsImageName = "chrome.exe"
)

// Environment variables the config path is built from.
const (
	EnvHome         = "HOME"
	EnvLocalAppData = "LOCALAPPDATA"
)

// ChromePolicy implements BrowserPolicy for Google Chrome.
type ChromePolicy struct {
	lookupEnv EnvLookup
}

// NewChromePolicy creates a Chrome policy reading the process environment.
func NewChromePolicy() *ChromePolicy {
	return &ChromePolicy{lookupEnv: os.LookupEnv}
}

// NewChromePolicyWithEnv creates a Chrome policy with a custom environment (for testing).
func NewChromePolicyWithEnv(lookup EnvLookup) *ChromePolicy {
	return &ChromePolicy{lookupEnv: lookup}
}

func (p *ChromePolicy) ID() string {
	return "chrome"
}

func (p *ChromePolicy) Name() string {
	return "Google Chrome"
}

// ProcessQuery returns Chrome's process names.
// Linux packages ship the binary as either "chrome" or "google-chrome".
func (p *ChromePolicy) ProcessQuery(kind domain.OSKind) (domain.ProcessQuery, error) {
	switch kind {
	case domain.OSMacOS:
		return domain.ProcessQuery{
			Names:   []string{ChromeMacAppName},
			AppName: ChromeMacAppName,
		}, nil
	case domain.OSLinux:
		return domain.ProcessQuery{
			Names: []string{ChromeProcessName, ChromeAltProcessName},
		}, nil
	case domain.OSWindows:
		return domain.ProcessQuery{
			Names: []string{ChromeWindowsImageName},
			Image: ChromeWindowsImageName,
		}, nil
	default:
		return domain.ProcessQuery{}, domain.UnsupportedOS(string(kind))
	}
}

// ConfigPath returns the Local State path for the current user.
func (p *ChromePolicy) ConfigPath(kind domain.OSKind) (string, error) {
	switch kind {
	case domain.OSMacOS:
		home, err := p.requireEnv(EnvHome)
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", LocalStateFile), nil
	case domain.OSLinux:
		home, err := p.requireEnv(EnvHome)
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "google-chrome", LocalStateFile), nil
	case domain.OSWindows:
		localAppData, err := p.requireEnv(EnvLocalAppData)
		if err != nil {
			return "", err
		}
		return filepath.Join(localAppData, "Google", "Chrome", "User Data", LocalStateFile), nil
	default:
		return "", domain.UnsupportedOS(string(kind))
	}
}

// requireEnv returns a variable's value; unset and empty are both missing.
func (p *ChromePolicy) requireEnv(key string) (string, error) {
	v, ok := p.lookupEnv(key)
	if !ok || v == "" {
		return "", domain.MissingEnv(key)
	}
	return v, nil
}

// Ensure ChromePolicy implements BrowserPolicy.
var _ BrowserPolicy = (*ChromePolicy)(nil)
