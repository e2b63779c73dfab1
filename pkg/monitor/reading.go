package monitor

import (
	"fmt"
	"time"
)

// Reading is one poll cycle's worth of output: the latest climate values with
// their validity flag, the smoothed gas value, and the calibration baseline.
type Reading struct {
	Timestamp   time.Time
	Temperature float64 // Degrees Celsius; undefined when ClimateOK is false
	Humidity    float64 // Percent RH; undefined when ClimateOK is false
	ClimateOK   bool    // False when the DHT11 read failed all retry attempts
	AirQuality  int     // Smoothed MQ135 value
	Baseline    int     // Clean-air baseline from startup calibration
}

// Deviation returns how far the smoothed gas value sits above (or below)
// the clean-air baseline.
func (r Reading) Deviation() int {
	return r.AirQuality - r.Baseline
}

// BadAir reports whether the deviation exceeds the configured threshold.
func (r Reading) BadAir(threshold int) bool {
	return r.Deviation() > threshold
}

// ConsoleLine formats the reading as a single status line for the console.
func (r Reading) ConsoleLine() string {
	if !r.ClimateOK {
		return "DHT sensor error"
	}
	return fmt.Sprintf("Temp: %.1f C | Humidity: %.1f %% | Air: %d (baseline: %d)",
		r.Temperature, r.Humidity, r.AirQuality, r.Baseline)
}
