package position

import (
	"context"
)

// AngleBehaviorFunc produces an angle in the requested unit or an error.
type AngleBehaviorFunc func(ctx context.Context, unit Unit) (float64, error)

// MockAngleSensor is a hardware-free AngleSensor driven by a behavior function.
//
// Example usage:
//
//	// Shaft turning one step per read
//	var step uint16
//	sensor := NewMockAngleSensor(func(ctx context.Context, unit Unit) (float64, error) {
//		step++
//		return unit.FromRaw(step), nil
//	})
type MockAngleSensor struct {
	behavior AngleBehaviorFunc
}

func NewMockAngleSensor(behavior AngleBehaviorFunc) *MockAngleSensor {
	return &MockAngleSensor{behavior: behavior}
}

func (m *MockAngleSensor) ReadAngleIn(ctx context.Context, unit Unit) (float64, error) {
	return m.behavior(ctx, unit)
}

// NewMockAS5600 returns a mock turning steps raw steps per read, starting from start.
func NewMockAS5600(start, steps uint16) *MockAngleSensor {
	pos := start
	return NewMockAngleSensor(func(ctx context.Context, unit Unit) (float64, error) {
		v := unit.FromRaw(pos)
		pos = (pos + steps) & angleMask
		return v, nil
	})
}
