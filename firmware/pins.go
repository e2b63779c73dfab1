package main

import "machine"

const (
	// Sensor pins (Uno-class board)
	PIN_DHT   = machine.D8
	PIN_MQ135 = machine.ADC0

	// DHT11 needs at least a second between conversions; the cached climate
	// values are refreshed on this interval and served from memory when the
	// host asks.
	CLIMATE_REFRESH_MS = 2000

	// The host protocol carries classic 10-bit ADC values (0-1023); the
	// machine package returns 16-bit left-justified readings.
	ADC_SHIFT = 6

	// Serial configuration
	// Replies are short single lines ("1023\n", "215,450\n") a few times per
	// second, well within 9600 baud.
	UART_BAUD_RATE = 9600
)
