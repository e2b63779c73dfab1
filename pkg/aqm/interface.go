package aqm

// Device defines the interface for sensor boards (real or mocked).
type Device interface {
	Connect() error
	Close() error
	ReadGas() (int, error)
	ReadClimate() (Climate, error)
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
