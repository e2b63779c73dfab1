// Package filter smooths raw MQ135 gas sensor samples and establishes the
// clean-air baseline they are compared against.
package filter

// Filter is a fixed-window moving average over raw ADC samples. It keeps a
// ring buffer of the last N samples, a running total, and a write cursor;
// the total always equals the sum of the buffer contents.
type Filter struct {
	readings []int
	index    int
	total    int
}

// New creates a moving average filter with the given window size.
func New(windowSize int) *Filter {
	if windowSize <= 0 {
		windowSize = 1 // No smoothing if invalid
	}

	return &Filter{
		readings: make([]int, windowSize),
	}
}

// Update pushes one raw sample into the window and returns the smoothed
// value: the truncating integer mean of the window contents. Until the window
// has filled once, the zero-initialized slots still participate in the mean.
func (f *Filter) Update(raw int) int {
	f.total -= f.readings[f.index]
	f.readings[f.index] = raw
	f.total += raw
	f.index = (f.index + 1) % len(f.readings)
	return f.total / len(f.readings)
}

// Average returns the current smoothed value without consuming a sample.
func (f *Filter) Average() int {
	return f.total / len(f.readings)
}

// Window returns the configured window size.
func (f *Filter) Window() int {
	return len(f.readings)
}

// Reset clears the window back to its initial all-zero state.
func (f *Filter) Reset() {
	for i := range f.readings {
		f.readings[i] = 0
	}
	f.index = 0
	f.total = 0
}
