package position

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errEnough = errors.New("enough")

func TestWatch_HandlerStops(t *testing.T) {
	sensor := NewMockAS5600(0, 1024)
	var got []float64
	err := Watch(context.Background(), sensor, Degrees, time.Millisecond, func(r Reading) error {
		require.NoError(t, r.Err)
		got = append(got, r.Value)
		if len(got) == 5 {
			return errEnough
		}
		return nil
	})
	assert.ErrorIs(t, err, errEnough)
	assert.Equal(t, []float64{0, 90, 180, 270, 0}, got)
}

func TestWatch_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sensor := NewMockAngleSensor(func(ctx context.Context, unit Unit) (float64, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return 0, nil
	})
	err := Watch(ctx, sensor, Raw, time.Millisecond, func(Reading) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestWatch_ReadErrorsDelivered(t *testing.T) {
	busErr := errors.New("bus gone")
	sensor := NewMockAngleSensor(func(ctx context.Context, unit Unit) (float64, error) {
		return 0, busErr
	})
	var seen error
	err := Watch(context.Background(), sensor, Raw, time.Millisecond, func(r Reading) error {
		seen = r.Err
		assert.False(t, r.At.IsZero())
		return errEnough
	})
	assert.ErrorIs(t, err, errEnough)
	assert.ErrorIs(t, seen, busErr)
}

func TestWatch_InvalidInterval(t *testing.T) {
	err := Watch(context.Background(), NewMockAS5600(0, 1), Raw, 0, func(Reading) error { return nil })
	assert.Error(t, err)
}

func TestWatch_Driver(t *testing.T) {
	dev := &txDevice{}
	dev.regs[regAngle] = 0x04
	s := NewAS5600(dev)
	err := Watch(context.Background(), s, Degrees, time.Millisecond, func(r Reading) error {
		require.NoError(t, r.Err)
		assert.InDelta(t, 90.0, r.Value, 1e-9)
		return errEnough
	})
	assert.ErrorIs(t, err, errEnough)
}
