package position

import (
	"context"
	"fmt"
	"time"
)

// AngleSensor is anything producing an angle in a requested unit.
type AngleSensor interface {
	ReadAngleIn(ctx context.Context, unit Unit) (float64, error)
}

var _ AngleSensor = &AS5600{}

type Reading struct {
	Value float64
	Err   error
	At    time.Time
}

// ReadingHandler receives every sample taken by Watch. Returning an error stops the loop.
type ReadingHandler func(Reading) error

// Watch samples sensor every interval until ctx is done or handler returns an error.
// Read failures are passed to handler rather than stopping the loop.
func Watch(ctx context.Context, sensor AngleSensor, unit Unit, interval time.Duration, handler ReadingHandler) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		v, err := sensor.ReadAngleIn(ctx, unit)
		if herr := handler(Reading{Value: v, Err: err, At: time.Now()}); herr != nil {
			return herr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
