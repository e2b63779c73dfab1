package aqm

import (
	"testing"
	"time"

	"github.com/itohio/goairmon/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockConfig() *config.MockConfig {
	return &config.MockConfig{
		GasBase:           150,
		GasNoise:          0,
		PollutionRise:     200,
		PollutionDuration: 10 * time.Second,
		PollutionPeriod:   time.Hour,
		Temperature:       21.5,
		Humidity:          45.0,
		ClimateFailEvery:  0,
	}
}

func TestMock_ConnectClose(t *testing.T) {
	dev := NewMock(mockConfig())

	assert.False(t, dev.IsConnected())
	require.NoError(t, dev.Connect())
	assert.True(t, dev.IsConnected())

	// Double connect must fail
	assert.Error(t, dev.Connect())

	require.NoError(t, dev.Close())
	assert.False(t, dev.IsConnected())

	// Close is idempotent
	assert.NoError(t, dev.Close())
}

func TestMock_ReadBeforeConnect(t *testing.T) {
	dev := NewMock(mockConfig())

	_, err := dev.ReadGas()
	assert.Error(t, err)

	_, err = dev.ReadClimate()
	assert.Error(t, err)
}

func TestMock_ReadGas_Range(t *testing.T) {
	cfg := mockConfig()
	cfg.GasNoise = 8
	dev := NewMock(cfg)
	require.NoError(t, dev.Connect())
	defer dev.Close()

	for i := 0; i < 50; i++ {
		v, err := dev.ReadGas()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, MaxGasValue)
		// Noise stays within its configured amplitude of the base level
		assert.InDelta(t, cfg.GasBase, v, float64(cfg.GasNoise)+1)
	}
}

func TestMock_ReadGas_NoNoise(t *testing.T) {
	dev := NewMock(mockConfig())
	require.NoError(t, dev.Connect())
	defer dev.Close()

	v, err := dev.ReadGas()
	require.NoError(t, err)
	assert.Equal(t, 150, v)
}

func TestMock_ReadClimate(t *testing.T) {
	dev := NewMock(mockConfig())
	require.NoError(t, dev.Connect())
	defer dev.Close()

	c, err := dev.ReadClimate()
	require.NoError(t, err)
	assert.Equal(t, 21.5, c.Temperature)
	assert.Equal(t, 45.0, c.Humidity)
}

func TestMock_ReadClimate_FailEvery(t *testing.T) {
	cfg := mockConfig()
	cfg.ClimateFailEvery = 3
	dev := NewMock(cfg)
	require.NoError(t, dev.Connect())
	defer dev.Close()

	var failures int
	for i := 1; i <= 9; i++ {
		_, err := dev.ReadClimate()
		if i%3 == 0 {
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidReading)
			failures++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 3, failures)
}

func TestNewMock_NilConfig(t *testing.T) {
	dev := NewMock(nil)
	require.NoError(t, dev.Connect())
	defer dev.Close()

	v, err := dev.ReadGas()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0)
	assert.LessOrEqual(t, v, MaxGasValue)
}
