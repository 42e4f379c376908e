package position

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_FromRaw(t *testing.T) {
	for v := range stepsPerTurn {
		raw := uint16(v)
		assert.Equal(t, float64(v), Raw.FromRaw(raw))
		assert.InDelta(t, float64(v)*360/4096, Degrees.FromRaw(raw), 1e-9)
		assert.InDelta(t, float64(v)*2*math.Pi/4096, Radians.FromRaw(raw), 1e-12)
	}
	assert.Equal(t, Degrees.FromRaw(0x0400), Degrees.FromRaw(0xF400), "top bits are not part of the angle")
}

func TestUnit_RoundTrip(t *testing.T) {
	for _, unit := range []Unit{Raw, Degrees, Radians} {
		t.Run(unit.String(), func(t *testing.T) {
			for v := range stepsPerTurn {
				if !assert.Equal(t, uint16(v), unit.ToRaw(unit.FromRaw(uint16(v)))) {
					return
				}
			}
		})
	}
}

func TestUnit_ToRaw(t *testing.T) {
	tests := []struct {
		name  string
		unit  Unit
		value float64
		raw   uint16
	}{
		{"quarter turn", Degrees, 90, 1024},
		{"truncates toward zero", Degrees, 0.17, 1},
		{"below one step", Degrees, 0.05, 0},
		{"full turn wraps", Degrees, 360, 0},
		{"negative wraps", Degrees, -90, 3072},
		{"half turn radians", Radians, math.Pi, 2048},
		{"raw passthrough", Raw, 4095, 4095},
		{"raw overflow masked", Raw, 4096 + 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.raw, tt.unit.ToRaw(tt.value))
		})
	}
}

func TestUnit_Parse(t *testing.T) {
	tests := map[string]Unit{"": Raw, "raw": Raw, "deg": Degrees, "Degrees": Degrees, "rad": Radians, "radians": Radians}
	for in, want := range tests {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseUnit("grad")
	assert.Error(t, err)

	var u Unit
	require.NoError(t, u.UnmarshalText([]byte("rad")))
	assert.Equal(t, Radians, u)
	assert.Equal(t, "deg", Degrees.String())
}
