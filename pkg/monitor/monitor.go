// Package monitor runs the fixed-interval poll loop: each cycle it reads the
// DHT11 with bounded retry, pushes one raw MQ135 sample through the moving
// average filter, and publishes the resulting Reading.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/itohio/goairmon/pkg/aqm"
	"github.com/itohio/goairmon/pkg/config"
	"github.com/itohio/goairmon/pkg/filter"
)

// Monitor owns the poll loop state: the device, the gas filter, the immutable
// baseline, and the latest Reading snapshot.
type Monitor struct {
	cfg      *config.Config
	dev      aqm.Device
	filter   *filter.Filter
	baseline int

	// Latest reading snapshot
	mu         sync.RWMutex
	latest     Reading
	hasReading bool

	// Update callbacks
	callbacks []func(Reading)
	cbMu      sync.RWMutex
}

// New creates a Monitor. The baseline comes from the one-time startup
// calibration and never changes for the lifetime of the monitor.
func New(cfg *config.Config, dev aqm.Device, f *filter.Filter, baseline int) *Monitor {
	return &Monitor{
		cfg:      cfg,
		dev:      dev,
		filter:   f,
		baseline: baseline,
	}
}

// Baseline returns the clean-air baseline the monitor was created with.
func (m *Monitor) Baseline() int {
	return m.baseline
}

// Latest returns the most recent Reading and whether any poll cycle has
// completed yet.
func (m *Monitor) Latest() (Reading, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.hasReading
}

// OnUpdate registers a callback invoked after every completed poll cycle.
// The callback should copy data quickly and return as fast as possible.
func (m *Monitor) OnUpdate(callback func(Reading)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// Run executes poll cycles at the configured fixed interval until the context
// is cancelled. A cycle is never re-entered before its interval has elapsed.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Monitor.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll performs one reading cycle and publishes the result.
func (m *Monitor) poll() Reading {
	climate, climateOK := m.readClimateWithRetry()

	air := m.filter.Average()
	raw, err := m.dev.ReadGas()
	if err != nil {
		// Keep the previous smoothed value rather than feeding the filter a
		// bogus sample; the window only ever sees real readings.
		log.Printf("MQ135 read failed: %v", err)
	} else {
		air = m.filter.Update(raw)
	}

	r := Reading{
		Timestamp:  time.Now(),
		ClimateOK:  climateOK,
		AirQuality: air,
		Baseline:   m.baseline,
	}
	if climateOK {
		r.Temperature = climate.Temperature
		r.Humidity = climate.Humidity
	}

	m.mu.Lock()
	m.latest = r
	m.hasReading = true
	m.mu.Unlock()

	m.notifyCallbacks(r)

	return r
}

// readClimateWithRetry attempts a combined temperature/humidity read up to
// the configured number of attempts, waiting a constant delay between them.
// The DHT11 protocol intermittently returns invalid readings, so a single
// failure is not escalated; only exhausting all attempts reports failure.
func (m *Monitor) readClimateWithRetry() (aqm.Climate, bool) {
	attempts := m.cfg.Climate.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	bo := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(m.cfg.Climate.RetryDelay),
		uint64(attempts-1),
	)

	var climate aqm.Climate
	err := backoff.Retry(func() error {
		c, err := m.dev.ReadClimate()
		if err != nil {
			return err
		}
		climate = c
		return nil
	}, bo)
	if err != nil {
		log.Printf("DHT read failed after %d attempts: %v", attempts, err)
		return aqm.Climate{}, false
	}

	return climate, true
}

// notifyCallbacks invokes all registered callbacks with the new reading.
func (m *Monitor) notifyCallbacks(r Reading) {
	m.cbMu.RLock()
	callbacks := make([]func(Reading), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(r)
		}
	}
}
