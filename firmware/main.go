//go:generate tinygo flash -target=arduino

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/dht"
)

var (
	adcGas  machine.ADC
	uart    = machine.UART0
	climate dht.DummyDevice

	// Cached DHT11 values served to the host
	deciTemp     int16
	deciHum      uint16
	climateValid bool

	// Timing
	lastClimateRead time.Time
)

func main() {
	// Configure ADC for the MQ135
	machine.InitADC()
	adcGas = machine.ADC{Pin: PIN_MQ135}
	adcGas.Configure(machine.ADCConfig{})

	// Configure UART for the host protocol
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// Configure DHT11
	climate = dht.New(PIN_DHT, dht.DHT11)

	// Take an initial climate reading so the cache is warm before the host
	// starts polling
	refreshClimate()
	lastClimateRead = time.Now()

	// Main loop
	for {
		now := time.Now()

		// Answer host commands (non-blocking)
		processSerial()

		// Refresh the cached DHT11 values on an elapsed-time check so a
		// pending host command is never starved by a blocking wait
		if now.Sub(lastClimateRead) >= CLIMATE_REFRESH_MS*time.Millisecond {
			refreshClimate()
			lastClimateRead = now
		}

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

// processSerial reads host commands from the UART and answers each with a
// single reply line. 'G' returns one raw MQ135 sample, 'C' the cached DHT11
// values.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		switch data {
		case 'G', 'g':
			outputGas()
		case 'C', 'c':
			outputClimate()
		case '\n', '\r', ' ', '\t':
			// Line endings and whitespace between commands are ignored
		default:
			// Unknown command - ignore
		}
	}
}

// outputGas samples the MQ135 and replies with a 10-bit decimal value.
// Example reply: "152\n"
func outputGas() {
	value := adcGas.Get() >> ADC_SHIFT
	print(value)
	print("\n")
}

// outputClimate replies with the cached DHT11 reading as deci-units.
// Example reply: "215,450\n" for 21.5 C at 45.0 % RH, or "nan,nan\n" when
// the last DHT11 conversion failed.
func outputClimate() {
	if !climateValid {
		print("nan,nan\n")
		return
	}

	print(deciTemp)
	print(",")
	print(deciHum)
	print("\n")
}

// refreshClimate runs one DHT11 conversion and updates the cache. A failed
// conversion (checksum error, no response) marks the cache invalid so the
// host sees "nan" and can retry on its side.
func refreshClimate() {
	if err := climate.ReadMeasurements(); err != nil {
		climateValid = false
		return
	}

	t, err := climate.Temperature()
	if err != nil {
		climateValid = false
		return
	}

	h, err := climate.Humidity()
	if err != nil {
		climateValid = false
		return
	}

	deciTemp = t
	deciHum = h
	climateValid = true
}
