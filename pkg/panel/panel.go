// Package panel provides the graphical status display: the latest climate and
// air-quality values plus an OK / BAD AIR indicator, rendered as a custom
// Fyne widget.
package panel

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goairmon/pkg/config"
	"github.com/itohio/goairmon/pkg/monitor"
)

// StatusWidget is a custom Fyne widget that displays the latest reading.
type StatusWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu         sync.RWMutex
	reading    monitor.Reading
	hasReading bool
}

// New creates a new StatusWidget instance.
func New(cfg *config.Config) *StatusWidget {
	s := &StatusWidget{
		cfg: cfg,
	}
	s.ExtendBaseWidget(s)
	// Trigger initial refresh to display the calibration banner
	s.Refresh()
	return s
}

// UpdateReading updates the widget with a new reading.
// This should be called from the monitor callback using fyne.Do().
func (s *StatusWidget) UpdateReading(r monitor.Reading) {
	s.mu.Lock()
	s.reading = r
	s.hasReading = true
	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// snapshot returns the current reading state for rendering.
func (s *StatusWidget) snapshot() (monitor.Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reading, s.hasReading
}

// CreateRenderer creates the widget renderer.
func (s *StatusWidget) CreateRenderer() fyne.WidgetRenderer {
	return newPanelRenderer(s)
}
