// Package infra implements infrastructure concerns (process, filesystem, backup).
package infra

import "github.com/eliteGoblin/focusd/glicpatch/internal/domain"

// OSKindFor maps a runtime.GOOS value to an OSKind.
func OSKindFor(goos string) (domain.OSKind, error) {
	switch goos {
	case "darwin":
		return domain.OSMacOS, nil
	case "linux":
		return domain.OSLinux, nil
	case "windows":
		return domain.OSWindows, nil
	default:
		return "", domain.UnsupportedOS(goos)
	}
}
