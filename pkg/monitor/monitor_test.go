package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itohio/goairmon/pkg/aqm"
	"github.com/itohio/goairmon/pkg/config"
	"github.com/itohio/goairmon/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// climateResult is one scripted ReadClimate outcome.
type climateResult struct {
	climate aqm.Climate
	err     error
}

// scriptedDevice plays back fixed sequences of gas and climate results,
// repeating the last entry once a sequence is exhausted.
type scriptedDevice struct {
	gasValues    []int
	gasErr       error
	gasCalls     int
	climateSeq   []climateResult
	climateCalls int
}

func (d *scriptedDevice) Connect() error    { return nil }
func (d *scriptedDevice) Close() error      { return nil }
func (d *scriptedDevice) IsConnected() bool { return true }

func (d *scriptedDevice) ReadGas() (int, error) {
	if d.gasErr != nil {
		return 0, d.gasErr
	}
	i := d.gasCalls
	if i >= len(d.gasValues) {
		i = len(d.gasValues) - 1
	}
	d.gasCalls++
	return d.gasValues[i], nil
}

func (d *scriptedDevice) ReadClimate() (aqm.Climate, error) {
	i := d.climateCalls
	if i >= len(d.climateSeq) {
		i = len(d.climateSeq) - 1
	}
	d.climateCalls++
	res := d.climateSeq[i]
	return res.climate, res.err
}

var _ aqm.Device = (*scriptedDevice)(nil)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Climate.MaxAttempts = 3
	cfg.Climate.RetryDelay = time.Millisecond
	cfg.Monitor.Interval = 5 * time.Millisecond
	return cfg
}

func validClimate() climateResult {
	return climateResult{climate: aqm.Climate{Temperature: 21.5, Humidity: 45.0}}
}

func invalidClimate() climateResult {
	return climateResult{err: aqm.ErrInvalidReading}
}

func TestReadClimateWithRetry_FirstAttempt(t *testing.T) {
	dev := &scriptedDevice{climateSeq: []climateResult{validClimate()}}
	m := New(testConfig(), dev, filter.New(10), 150)

	c, ok := m.readClimateWithRetry()
	assert.True(t, ok)
	assert.Equal(t, 21.5, c.Temperature)
	assert.Equal(t, 45.0, c.Humidity)
	assert.Equal(t, 1, dev.climateCalls)
}

func TestReadClimateWithRetry_SucceedsOnThird(t *testing.T) {
	dev := &scriptedDevice{climateSeq: []climateResult{
		invalidClimate(),
		invalidClimate(),
		validClimate(),
	}}
	m := New(testConfig(), dev, filter.New(10), 150)

	c, ok := m.readClimateWithRetry()
	assert.True(t, ok)
	assert.Equal(t, 21.5, c.Temperature)
	assert.Equal(t, 45.0, c.Humidity)
	assert.Equal(t, 3, dev.climateCalls)
}

func TestReadClimateWithRetry_AllAttemptsFail(t *testing.T) {
	dev := &scriptedDevice{climateSeq: []climateResult{invalidClimate()}}
	m := New(testConfig(), dev, filter.New(10), 150)

	_, ok := m.readClimateWithRetry()
	assert.False(t, ok)
	// Exactly MaxAttempts total attempts, no more
	assert.Equal(t, 3, dev.climateCalls)
}

func TestPoll_PublishesSnapshot(t *testing.T) {
	dev := &scriptedDevice{
		gasValues:  []int{260},
		climateSeq: []climateResult{validClimate()},
	}
	f := filter.New(1)
	m := New(testConfig(), dev, f, 150)

	_, ok := m.Latest()
	assert.False(t, ok)

	r := m.poll()

	latest, ok := m.Latest()
	require.True(t, ok)
	assert.Equal(t, r, latest)
	assert.True(t, latest.ClimateOK)
	assert.Equal(t, 21.5, latest.Temperature)
	assert.Equal(t, 45.0, latest.Humidity)
	assert.Equal(t, 260, latest.AirQuality)
	assert.Equal(t, 150, latest.Baseline)
	assert.False(t, latest.Timestamp.IsZero())
}

func TestPoll_SmoothsGas(t *testing.T) {
	dev := &scriptedDevice{
		gasValues:  []int{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 200},
		climateSeq: []climateResult{validClimate()},
	}
	m := New(testConfig(), dev, filter.New(10), 100)

	var r Reading
	for i := 0; i < 11; i++ {
		r = m.poll()
	}

	// (9*100 + 200)/10 with truncating division
	assert.Equal(t, 119, r.AirQuality)
}

func TestPoll_ClimateFailure(t *testing.T) {
	dev := &scriptedDevice{
		gasValues:  []int{180},
		climateSeq: []climateResult{invalidClimate()},
	}
	m := New(testConfig(), dev, filter.New(1), 150)

	r := m.poll()

	assert.False(t, r.ClimateOK)
	// Gas path is independent of the climate failure
	assert.Equal(t, 180, r.AirQuality)
	assert.Equal(t, "DHT sensor error", r.ConsoleLine())
}

func TestPoll_GasFailureKeepsPreviousAverage(t *testing.T) {
	dev := &scriptedDevice{
		gasValues:  []int{200},
		climateSeq: []climateResult{validClimate()},
	}
	m := New(testConfig(), dev, filter.New(1), 150)

	r := m.poll()
	assert.Equal(t, 200, r.AirQuality)

	dev.gasErr = errors.New("port gone")
	r = m.poll()

	// The filter window is untouched by the failed read
	assert.Equal(t, 200, r.AirQuality)
	assert.True(t, r.ClimateOK)
}

func TestMonitor_OnUpdate(t *testing.T) {
	dev := &scriptedDevice{
		gasValues:  []int{150},
		climateSeq: []climateResult{validClimate()},
	}
	m := New(testConfig(), dev, filter.New(1), 150)

	var got []Reading
	m.OnUpdate(func(r Reading) {
		got = append(got, r)
	})

	m.poll()
	m.poll()

	require.Len(t, got, 2)
	assert.Equal(t, 150, got[0].AirQuality)
}

func TestRun_StopsOnCancel(t *testing.T) {
	dev := &scriptedDevice{
		gasValues:  []int{150},
		climateSeq: []climateResult{validClimate()},
	}
	m := New(testConfig(), dev, filter.New(1), 150)

	polled := make(chan Reading, 16)
	m.OnUpdate(func(r Reading) {
		select {
		case polled <- r:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	// Wait for at least one poll cycle
	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("no poll cycle within 1s")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestBaseline(t *testing.T) {
	m := New(testConfig(), &scriptedDevice{}, filter.New(1), 142)
	assert.Equal(t, 142, m.Baseline())
}
