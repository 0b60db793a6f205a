// Package usecase contains application business logic.
package usecase

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// BrowserMonitor implements domain.ProcessMonitor.
// It is a single point-in-time check with no retries.
type BrowserMonitor struct {
	os      domain.OSKind
	query   domain.ProcessQuery
	control domain.ProcessControl
	logger  *zap.Logger
}

// NewBrowserMonitor creates a monitor for one browser on one OS.
func NewBrowserMonitor(
	os domain.OSKind,
	query domain.ProcessQuery,
	control domain.ProcessControl,
	logger *zap.Logger,
) *BrowserMonitor {
	return &BrowserMonitor{
		os:      os,
		query:   query,
		control: control,
		logger:  logger,
	}
}

// IsRunning reports whether any of the browser's processes is alive.
// Names are checked in order and the first hit wins.
func (m *BrowserMonitor) IsRunning() (bool, error) {
	switch m.os {
	case domain.OSMacOS, domain.OSLinux:
		for _, name := range m.query.Names {
			found, err := m.control.Exists(name)
			if err != nil {
				return false, err
			}
			if found {
				m.logger.Debug("browser process found", zap.String("name", name))
				return true, nil
			}
		}
		return false, nil

	case domain.OSWindows:
		return m.control.ImageListed(m.query.Image)

	default:
		return false, domain.UnsupportedOS(string(m.os))
	}
}

// Ensure BrowserMonitor implements domain.ProcessMonitor.
var _ domain.ProcessMonitor = (*BrowserMonitor)(nil)
