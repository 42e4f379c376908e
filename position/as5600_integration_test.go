//go:build integration

package position_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/rotary/i2c"
	"github.com/mklimuk/rotary/position"
)

// Needs a sensor on AS5600_I2C_DEVICE (e.g. /dev/i2c-1) with a magnet in place.
func TestAS5600_Hardware(t *testing.T) {
	dev := os.Getenv("AS5600_I2C_DEVICE")
	if dev == "" {
		t.Skip("AS5600_I2C_DEVICE not set")
	}
	bus, err := i2c.NewGenericBus(dev)
	require.NoError(t, err)
	defer bus.Close()
	ctx := context.Background()
	s := position.NewAS5600(bus)
	require.NoError(t, s.Init(ctx))

	magnet, err := s.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, magnet.Usable(), "magnet state %s", magnet)

	raw, err := s.ReadRawAngle(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, raw, uint16(4095))

	// volatile round trip, restored afterwards
	orig, err := s.GetConfiguration(ctx)
	require.NoError(t, err)
	defer func() { _ = s.SetConfiguration(ctx, orig) }()
	want := orig
	want.Hysteresis = position.Hysteresis2LSB
	require.NoError(t, s.SetConfiguration(ctx, want))
	got, err := s.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
