package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/itohio/goairmon/pkg/aqm"
	"github.com/itohio/goairmon/pkg/config"
	"github.com/itohio/goairmon/pkg/filter"
	"github.com/itohio/goairmon/pkg/monitor"
)

func main() {
	var (
		portFlag     = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use mocked sensor board instead of serial port")
		headlessFlag = flag.Bool("headless", false, "Console output only, skip the graphical display")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Select and connect the sensor board
	var device aqm.Device
	if *mockFlag {
		device = aqm.NewMock(&cfg.Mock)
		fmt.Println("Using mocked sensor board")
	} else {
		device = aqm.New(cfg.Serial.Port, aqm.DefaultBaudRate, aqm.DefaultReadTimeout)
	}

	if err := device.Connect(); err != nil {
		if ports, perr := aqm.Ports(); perr == nil && len(ports) > 0 {
			log.Printf("Available serial ports:")
			for _, p := range ports {
				log.Printf("  %s", p.Name)
			}
		}
		log.Fatalf("Failed to connect to sensor board: %v", err)
	}
	defer device.Close()

	// One-time baseline calibration. Blocks, which is fine: nothing else is
	// running yet, and the monitor loop needs the baseline before it starts.
	fmt.Println("Calibrating MQ135, keep sensor in clean air...")
	baseline, err := filter.Calibrate(device, cfg.Calibration.Samples, cfg.Calibration.SettleDelay)
	if err != nil {
		log.Fatalf("Calibration failed: %v", err)
	}
	fmt.Printf("MQ135 baseline set to: %d\n", baseline)

	mon := monitor.New(cfg, device, filter.New(cfg.Filter.WindowSize), baseline)

	// Console reporting: one status line per poll cycle
	mon.OnUpdate(func(r monitor.Reading) {
		fmt.Println(r.ConsoleLine())
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *headlessFlag {
		mon.Run(ctx)
		return
	}

	// The graphical display is optional: if it cannot be brought up, keep
	// running with console output only for the rest of the run.
	ui, err := newDisplay(cfg)
	if err != nil {
		log.Printf("Display unavailable - continuing with console output only: %v", err)
		mon.Run(ctx)
		return
	}

	ui.run(ctx, mon)
}
