// Package policy describes the browser this tool patches: where its
// Local State lives and how its processes are named on each OS.
package policy

import (
	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// LocalStateFile is the file name Chrome uses for browser-wide preferences.
const LocalStateFile = "Local State"

// BrowserPolicy defines what the tool needs to know about a browser.
// Every method switches over domain.OSKind exactly once.
type BrowserPolicy interface {
	// ID returns a unique identifier (e.g., "chrome").
	ID() string

	// Name returns human-readable name for display.
	Name() string

	// ProcessQuery returns the process names to look for on one OS.
	ProcessQuery(kind domain.OSKind) (domain.ProcessQuery, error)

	// ConfigPath returns the Local State path on one OS.
	// It does not check that the file exists.
	ConfigPath(kind domain.OSKind) (string, error)
}

// EnvLookup matches os.LookupEnv.
type EnvLookup func(key string) (string, bool)
