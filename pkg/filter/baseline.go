package filter

import (
	"fmt"
	"time"
)

// GasReader provides raw gas sensor samples. *aqm.Serial and *aqm.Mock both
// satisfy it.
type GasReader interface {
	ReadGas() (int, error)
}

// Calibrate establishes the clean-air baseline: it takes the given number of
// raw samples, sleeping the settle delay between them, and returns their
// truncating integer mean. It blocks for roughly samples*settle, which is
// acceptable because it runs once before the monitor loop starts.
//
// The sensor must be in clean air while this runs. That precondition cannot
// be verified here; a polluted or stuck sensor skews every later deviation.
func Calibrate(r GasReader, samples int, settle time.Duration) (int, error) {
	if samples <= 0 {
		samples = 1
	}

	sum := 0
	for i := 0; i < samples; i++ {
		v, err := r.ReadGas()
		if err != nil {
			return 0, fmt.Errorf("calibration sample %d/%d failed: %w", i+1, samples, err)
		}
		sum += v
		time.Sleep(settle)
	}

	return sum / samples, nil
}
