package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Filter      FilterConfig      `yaml:"filter"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Climate     ClimateConfig     `yaml:"climate"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// FilterConfig contains gas sensor smoothing parameters.
type FilterConfig struct {
	WindowSize int `yaml:"window_size"` // Number of raw MQ135 samples in the moving average
}

// CalibrationConfig contains the startup baseline calibration parameters.
type CalibrationConfig struct {
	Samples     int           `yaml:"samples"`      // Raw samples averaged into the baseline
	SettleDelay time.Duration `yaml:"settle_delay"` // Delay between calibration samples
}

// ClimateConfig contains DHT11 read retry parameters.
type ClimateConfig struct {
	MaxAttempts int           `yaml:"max_attempts"` // Total read attempts before giving up
	RetryDelay  time.Duration `yaml:"retry_delay"`  // Delay between attempts
}

// MonitorConfig contains poll loop and reporting parameters.
type MonitorConfig struct {
	Interval        time.Duration `yaml:"interval"`          // Time between poll cycles
	BadAirThreshold int           `yaml:"bad_air_threshold"` // Deviation above baseline that flags bad air
}

// MockConfig contains mock sensor board configuration.
type MockConfig struct {
	GasBase           int           `yaml:"gas_base"`           // Clean-air ADC level (0-1023)
	GasNoise          int           `yaml:"gas_noise"`          // Peak noise amplitude in ADC counts
	PollutionRise     int           `yaml:"pollution_rise"`     // ADC counts added during a pollution event
	PollutionDuration time.Duration `yaml:"pollution_duration"` // Length of a pollution event
	PollutionPeriod   time.Duration `yaml:"pollution_period"`   // Time between pollution events
	Temperature       float64       `yaml:"temperature"`        // Simulated temperature (C)
	Humidity          float64       `yaml:"humidity"`           // Simulated humidity (%)
	ClimateFailEvery  int           `yaml:"climate_fail_every"` // Every Nth climate read fails (0 = never)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
		},
		Filter: FilterConfig{
			WindowSize: 10,
		},
		Calibration: CalibrationConfig{
			Samples:     20,
			SettleDelay: 50 * time.Millisecond,
		},
		Climate: ClimateConfig{
			MaxAttempts: 3,
			RetryDelay:  100 * time.Millisecond,
		},
		Monitor: MonitorConfig{
			Interval:        2 * time.Second,
			BadAirThreshold: 100,
		},
		Mock: MockConfig{
			GasBase:           150,
			GasNoise:          4,
			PollutionRise:     200,
			PollutionDuration: 10 * time.Second,
			PollutionPeriod:   60 * time.Second,
			Temperature:       21.5,
			Humidity:          45.0,
			ClimateFailEvery:  0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	if c.Filter.WindowSize <= 0 {
		c.Filter.WindowSize = def.Filter.WindowSize
	}

	if c.Calibration.Samples <= 0 {
		c.Calibration.Samples = def.Calibration.Samples
	}
	if c.Calibration.SettleDelay == 0 {
		c.Calibration.SettleDelay = def.Calibration.SettleDelay
	}

	if c.Climate.MaxAttempts <= 0 {
		c.Climate.MaxAttempts = def.Climate.MaxAttempts
	}
	if c.Climate.RetryDelay == 0 {
		c.Climate.RetryDelay = def.Climate.RetryDelay
	}

	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = def.Monitor.Interval
	}
	if c.Monitor.BadAirThreshold == 0 {
		c.Monitor.BadAirThreshold = def.Monitor.BadAirThreshold
	}

	if c.Mock.GasBase == 0 {
		c.Mock.GasBase = def.Mock.GasBase
	}
	if c.Mock.PollutionPeriod == 0 {
		c.Mock.PollutionPeriod = def.Mock.PollutionPeriod
	}
	if c.Mock.PollutionDuration == 0 {
		c.Mock.PollutionDuration = def.Mock.PollutionDuration
	}
	if c.Mock.Temperature == 0 {
		c.Mock.Temperature = def.Mock.Temperature
	}
	if c.Mock.Humidity == 0 {
		c.Mock.Humidity = def.Mock.Humidity
	}
}
