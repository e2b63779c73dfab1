package aqm

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/itohio/goairmon/pkg/config"
)

// Mock simulates a sensor board for testing and development.
type Mock struct {
	cfg *config.MockConfig

	mu        sync.Mutex
	connected bool

	// Simulation state
	startTime     time.Time
	lastPollution time.Time
	climateReads  int
}

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// NewMock creates a new mocked sensor board instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			GasBase:           150,
			GasNoise:          4,
			PollutionRise:     200,
			PollutionDuration: 10 * time.Second,
			PollutionPeriod:   60 * time.Second,
			Temperature:       21.5,
			Humidity:          45.0,
			ClimateFailEvery:  0,
		}
	}

	return &Mock{
		cfg:       cfg,
		connected: false,
	}
}

// Connect simulates connecting to the board.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()
	// Back-date the last event so the board starts in clean air, which is
	// what calibration assumes right after connecting.
	m.lastPollution = m.startTime.Add(-m.cfg.PollutionDuration)
	m.climateReads = 0

	return nil
}

// Close stops the mocked board.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false

	return nil
}

// IsConnected returns whether the board is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// ReadGas returns a simulated raw MQ135 ADC sample: the clean-air base level
// plus deterministic noise, with periodic pollution events layered on top.
func (m *Mock) ReadGas() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, fmt.Errorf("not connected")
	}

	now := time.Now()
	elapsed := now.Sub(m.startTime)
	pollutionElapsed := now.Sub(m.lastPollution)

	// Check if a pollution event should be active
	pollutionActive := false
	if pollutionElapsed >= m.cfg.PollutionPeriod {
		// Time for the next event
		pollutionActive = true
		m.lastPollution = now
	} else if pollutionElapsed < m.cfg.PollutionDuration {
		// Event is still ongoing
		pollutionActive = true
	}

	value := m.cfg.GasBase
	if pollutionActive {
		value += m.cfg.PollutionRise
	}

	// Deterministic noise from two incommensurate oscillations
	noise := (math.Sin(float64(elapsed.Nanoseconds())*0.001) +
		math.Cos(float64(elapsed.Nanoseconds())*0.0013)) *
		float64(m.cfg.GasNoise) * 0.5
	value += int(noise)

	if value < 0 {
		value = 0
	} else if value > MaxGasValue {
		value = MaxGasValue
	}

	return value, nil
}

// ReadClimate returns the configured temperature and humidity. When
// ClimateFailEvery is N > 0, every Nth read fails with ErrInvalidReading to
// exercise the caller's retry path.
func (m *Mock) ReadClimate() (Climate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return Climate{}, fmt.Errorf("not connected")
	}

	m.climateReads++
	if m.cfg.ClimateFailEvery > 0 && m.climateReads%m.cfg.ClimateFailEvery == 0 {
		return Climate{}, ErrInvalidReading
	}

	return Climate{
		Temperature: m.cfg.Temperature,
		Humidity:    m.cfg.Humidity,
	}, nil
}
