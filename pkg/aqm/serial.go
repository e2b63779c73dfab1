package aqm

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the baud rate the sensor board firmware configures.
	DefaultBaudRate = 9600
	// DefaultReadTimeout bounds how long a single request waits for a reply line.
	DefaultReadTimeout = 500 * time.Millisecond

	// MaxGasValue is the highest raw MQ135 reading the 10-bit ADC can produce.
	MaxGasValue = 1023

	cmdGas     = "G\n"
	cmdClimate = "C\n"
)

// ErrInvalidReading reports a transient invalid DHT11 response. The firmware
// marks these with "nan" fields; a retry is expected to succeed.
var ErrInvalidReading = errors.New("invalid climate reading")

// Climate is a combined DHT11 temperature and humidity reading.
type Climate struct {
	Temperature float64 // Degrees Celsius
	Humidity    float64 // Percent relative humidity
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the sensor board MCU.
type Serial struct {
	port        string
	baudRate    int
	readTimeout time.Duration

	conn      serial.Port
	reader    *bufio.Reader
	mu        sync.Mutex
	connected bool
}

// New creates a new Serial device with the specified port, baud rate, and read timeout.
func New(port string, baudRate int, readTimeout time.Duration) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if readTimeout == 0 {
		readTimeout = DefaultReadTimeout
	}

	return &Serial{
		port:        port,
		baudRate:    baudRate,
		readTimeout: readTimeout,
		connected:   false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	if err := port.SetReadTimeout(d.readTimeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	d.conn = port
	d.reader = bufio.NewReader(port)
	d.connected = true

	return nil
}

// Close closes the connection.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			d.conn = nil
			d.reader = nil
			d.connected = false
			return fmt.Errorf("failed to close serial port: %w", err)
		}
		d.conn = nil
	}

	d.reader = nil
	d.connected = false

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// ReadGas requests one raw MQ135 ADC sample from the board.
func (d *Serial) ReadGas() (int, error) {
	line, err := d.request(cmdGas)
	if err != nil {
		return 0, err
	}
	return parseGasLine(line)
}

// ReadClimate requests one combined DHT11 temperature/humidity reading.
// A transient sensor failure on the board is reported as ErrInvalidReading.
func (d *Serial) ReadClimate() (Climate, error) {
	line, err := d.request(cmdClimate)
	if err != nil {
		return Climate{}, err
	}
	return parseClimateLine(line)
}

// request sends a one-character command and reads the single reply line.
// Requests are serialized: the board answers strictly in order.
func (d *Serial) request(cmd string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return "", fmt.Errorf("not connected")
	}

	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	line, err := d.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read reply: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// parseGasLine parses a gas reply line from the board.
// Format: a single decimal 10-bit ADC value.
// Example: "152"
func parseGasLine(line string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("invalid gas reading: %w", err)
	}
	if value < 0 || value > MaxGasValue {
		return 0, fmt.Errorf("gas reading out of range: %d (max %d)", value, MaxGasValue)
	}
	return value, nil
}

// parseClimateLine parses a climate reply line from the board.
// Format: deci-degrees,deci-percent. A failed DHT11 read on the board is
// reported as "nan" in either field.
// Example: "215,450" is 21.5 C at 45.0 % RH.
func parseClimateLine(line string) (Climate, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 2 {
		return Climate{}, fmt.Errorf("invalid climate format: expected 2 comma-separated values, got %d", len(parts))
	}

	if strings.EqualFold(parts[0], "nan") || strings.EqualFold(parts[1], "nan") {
		return Climate{}, ErrInvalidReading
	}

	deciTemp, err := strconv.Atoi(parts[0])
	if err != nil {
		return Climate{}, fmt.Errorf("invalid temperature: %w", err)
	}

	deciHum, err := strconv.Atoi(parts[1])
	if err != nil {
		return Climate{}, fmt.Errorf("invalid humidity: %w", err)
	}

	// DHT11 operating ranges; anything outside is a corrupted transfer
	if deciTemp < -400 || deciTemp > 800 {
		return Climate{}, fmt.Errorf("%w: temperature out of range: %d", ErrInvalidReading, deciTemp)
	}
	if deciHum < 0 || deciHum > 1000 {
		return Climate{}, fmt.Errorf("%w: humidity out of range: %d", ErrInvalidReading, deciHum)
	}

	return Climate{
		Temperature: float64(deciTemp) / 10.0,
		Humidity:    float64(deciHum) / 10.0,
	}, nil
}
