package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/mklimuk/rotary/position"
)

func TestGenericBus_RepeatedStartRead(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: position.DefaultAddress, W: []byte{0x0C}, R: []byte{0x08, 0x00}},
			{Addr: position.DefaultAddress, W: []byte{0x07, 0x20, 0x03}},
		},
	}
	bus := NewBus(playback)
	s := position.NewAS5600(bus)
	ctx := context.Background()

	raw, err := s.ReadRawAngle(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(2048), raw)

	require.NoError(t, s.SetConfiguration(ctx, position.Configuration{
		Watchdog:   position.WatchdogOn,
		PowerMode:  position.PowerLowMode3,
		FastFilter: position.FastFilterOff,
	}))

	require.NoError(t, bus.Close(), "all recorded operations must be consumed")
}

func TestGenericBus_PlainReadWrite(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x36, W: []byte{0x0B}},
			{Addr: 0x36, R: []byte{0x20}},
		},
	}
	bus := NewBus(playback)
	ctx := context.Background()

	require.NoError(t, bus.WriteToAddr(ctx, 0x36, []byte{0x0B}))
	buf := make([]byte, 1)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x36, buf))
	assert.Equal(t, byte(0x20), buf[0])
	require.NoError(t, bus.Close())
}

func TestGenericBus_Errors(t *testing.T) {
	playback := &i2ctest.Playback{DontPanic: true}
	bus := NewBus(playback)
	ctx := context.Background()

	assert.Error(t, bus.WriteToAddr(ctx, 0x36, []byte{0x0B}))
	assert.Error(t, bus.TxToAddr(ctx, 0x36, []byte{0x0B}, make([]byte, 1)))
}
