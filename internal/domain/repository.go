package domain

// ProcessControl is the set of OS process primitives the browser monitor
// and terminator are built on.
// Implementations: command-line tools (pgrep, kill, osascript, tasklist,
// taskkill) or gopsutil.
type ProcessControl interface {
	// Exists reports whether a process with exactly this name is running.
	Exists(name string) (bool, error)

	// ImageListed reports whether the process listing filtered by image
	// contains that image.
	ImageListed(image string) (bool, error)

	// FindPIDs returns the deduplicated, ascending pids of every process
	// whose name equals one of names.
	FindPIDs(names []string) ([]int, error)

	// Signal delivers sig to all pids in one batch.
	Signal(pids []int, sig Signal) error

	// QuitApp asks an application to quit the way a user would.
	QuitApp(appName string) error

	// KillImage force-terminates every process of an image.
	KillImage(image string) error
}

// ProcessMonitor answers whether the browser is running right now.
type ProcessMonitor interface {
	IsRunning() (bool, error)
}

// ProcessTerminator stops a running browser, escalating where the OS allows.
type ProcessTerminator interface {
	Stop() (*StopOutcome, error)
}

// FileSystemManager handles filesystem operations.
type FileSystemManager interface {
	// Exists checks if a path exists.
	Exists(path string) bool

	// ReadFile returns the file contents as text.
	ReadFile(path string) (string, error)

	// WriteFile replaces the file contents, keeping its permissions.
	WriteFile(path string, data []byte) error

	// Copy copies src over dst atomically.
	Copy(src, dst string) error

	// Checksum returns the hex SHA-256 of a file.
	Checksum(path string) (string, error)
}

// BackupManager keeps the sibling .bak copy of the Local State file.
type BackupManager interface {
	// BackupPath returns <config>.bak next to the config file.
	BackupPath(configPath string) (string, error)

	// Create copies the config to its backup and verifies the copy.
	Create(configPath string) (string, error)

	// Restore copies the backup over the config.
	Restore(configPath string) (string, error)
}

// Patcher rewrites a Local State document.
type Patcher interface {
	Apply(content string) (*PatchReport, error)
}

// Unlocker orchestrates the whole run.
type Unlocker interface {
	// EnsureNotRunning fails unless the browser is stopped, stopping it first when kill is set.
	EnsureNotRunning(kill bool) error

	// Patch backs up, patches and writes the Local State file.
	Patch(configPath string) (*PatchReport, error)

	// Restore copies the backup over the Local State file.
	Restore(configPath string) error
}
