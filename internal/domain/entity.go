// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

// OSKind identifies a supported operating system.
type OSKind string

const (
	OSMacOS   OSKind = "macos"
	OSLinux   OSKind = "linux"
	OSWindows OSKind = "windows"
)

// Signal is the strength of a stop request sent to a pid set.
type Signal string

const (
	SignalTerm Signal = "TERM"
	SignalKill Signal = "KILL"
)

// ProcessQuery describes how the browser shows up in the process table on one OS.
type ProcessQuery struct {
	Names   []string // Exact process names, checked in order
	AppName string   // Application name for a graceful quit (macOS)
	Image   string   // Image name for listing and force kill (Windows)
}

// Top-level keys of Chrome's Local State that the patcher touches.
const (
	KeyIsGlicEligible             = "is_glic_eligible"
	KeyVariationsCountry          = "variations_country"
	KeyVariationsPermanentCountry = "variations_permanent_consistency_country"
)

// PatchReport is the result of one patch run over a Local State document.
type PatchReport struct {
	Content                           string
	ChangedIsGlic                     bool
	ChangedVariationsCountry          bool
	ChangedVariationsPermanentCountry bool
}

// AnyChanged reports whether at least one field was rewritten.
func (r *PatchReport) AnyChanged() bool {
	return r.ChangedIsGlic || r.ChangedVariationsCountry || r.ChangedVariationsPermanentCountry
}

// StopState is a state of the browser stop state machine.
type StopState string

const (
	StateRunning                StopState = "running"
	StateStopRequested          StopState = "stop_requested"
	StateWaiting                StopState = "waiting"
	StateStillRunning           StopState = "still_running"
	StateEscalatedStopRequested StopState = "escalated_stop_requested"
	StateWaitingEscalated       StopState = "waiting_escalated"
	StateStopped                StopState = "stopped"
	StateFailed                 StopState = "failed"
)

// StopOutcome captures what happened during a single stop attempt.
type StopOutcome struct {
	FinalState   StopState
	Trace        []StopState // Every state entered, in order
	Phases       int         // Stop actions actually issued
	Attempts     int         // Monitor polls across all waits
	SignaledPIDs []int       // Union of pids signaled on Linux
}
