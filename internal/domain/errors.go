package domain

import "fmt"

// ErrorKind classifies application errors.
type ErrorKind string

const (
	KindIO                 ErrorKind = "io"
	KindInvalidJSON        ErrorKind = "invalid_json"
	KindUnsupportedOS      ErrorKind = "unsupported_os"
	KindMissingEnv         ErrorKind = "missing_env"
	KindChromeRunning      ErrorKind = "chrome_running"
	KindChromeStillRunning ErrorKind = "chrome_still_running"
	KindConfigNotFound     ErrorKind = "config_not_found"
	KindBackupNotFound     ErrorKind = "backup_not_found"
	KindInvalidPath        ErrorKind = "invalid_path"
	KindCommandFailed      ErrorKind = "command_failed"
)

// AppError is the error type surfaced to the CLI.
// Two AppErrors match under errors.Is when their kinds are equal.
type AppError struct {
	Kind    ErrorKind
	Message string
	Command string // Set for KindCommandFailed
	Details string // Set for KindCommandFailed
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on kind so callers can use the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrIO                 = &AppError{Kind: KindIO, Message: "I/O failure"}
	ErrInvalidJSON        = &AppError{Kind: KindInvalidJSON, Message: "JSON processing failed"}
	ErrUnsupportedOS      = &AppError{Kind: KindUnsupportedOS, Message: "unsupported operating system"}
	ErrMissingEnv         = &AppError{Kind: KindMissingEnv, Message: "missing environment variable"}
	ErrChromeRunning      = &AppError{Kind: KindChromeRunning, Message: "Chrome is running, please close it first"}
	ErrChromeStillRunning = &AppError{Kind: KindChromeStillRunning, Message: "Chrome is still running, please confirm it has been fully closed"}
	ErrConfigNotFound     = &AppError{Kind: KindConfigNotFound, Message: "Chrome configuration file not found"}
	ErrBackupNotFound     = &AppError{Kind: KindBackupNotFound, Message: "backup file not found"}
	ErrInvalidPath        = &AppError{Kind: KindInvalidPath, Message: "invalid path"}
	ErrCommandFailed      = &AppError{Kind: KindCommandFailed, Message: "command execution failed"}
)

// IOError wraps a filesystem failure for path.
func IOError(op, path string, cause error) *AppError {
	return &AppError{Kind: KindIO, Message: fmt.Sprintf("%s failed: %s", op, path), Cause: cause}
}

// InvalidJSON reports a document that could not be parsed, validated or serialized.
func InvalidJSON(msg string) *AppError {
	return &AppError{Kind: KindInvalidJSON, Message: "JSON processing failed: " + msg}
}

// UnsupportedOS reports an operating system outside OSKind.
func UnsupportedOS(goos string) *AppError {
	return &AppError{Kind: KindUnsupportedOS, Message: "unsupported operating system: " + goos}
}

// MissingEnv reports a required environment variable that is unset.
func MissingEnv(name string) *AppError {
	return &AppError{Kind: KindMissingEnv, Message: "missing environment variable: " + name}
}

// ConfigNotFound reports a missing Local State file.
func ConfigNotFound(path string) *AppError {
	return &AppError{Kind: KindConfigNotFound, Message: "Chrome configuration file not found: " + path}
}

// BackupNotFound reports a missing backup in restore mode.
func BackupNotFound(path string) *AppError {
	return &AppError{Kind: KindBackupNotFound, Message: "backup file not found: " + path}
}

// InvalidPath reports a path with no usable file name.
func InvalidPath(path string) *AppError {
	return &AppError{Kind: KindInvalidPath, Message: "invalid path: " + path}
}

// CommandFailed reports an external command that could not do its job.
func CommandFailed(command, details string) *AppError {
	return &AppError{
		Kind:    KindCommandFailed,
		Message: fmt.Sprintf("command execution failed: %s (%s)", command, details),
		Command: command,
		Details: details,
	}
}
