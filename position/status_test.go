package position

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMagnetState(t *testing.T) {
	tests := []struct {
		code  byte
		state MagnetState
	}{
		{1, MagnetTooStrong},
		{5, MagnetStrong},
		{4, MagnetNormal},
		{6, MagnetWeak},
		// codes without a documented meaning fall back to MagnetTooWeak, which also
		// hides states such as "no magnet" (0) or contradictory ML+MH bits (3, 7)
		{0, MagnetTooWeak},
		{2, MagnetTooWeak},
		{3, MagnetTooWeak},
		{7, MagnetTooWeak},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %d", tt.code), func(t *testing.T) {
			status := tt.code << 3
			assert.Equal(t, tt.state, decodeMagnetState(status))
			// bits outside MD/ML/MH do not change the result
			assert.Equal(t, tt.state, decodeMagnetState(status|0xC7))
		})
	}
}

func TestMagnetState_Ordinals(t *testing.T) {
	assert.Equal(t, MagnetState(0), MagnetTooWeak)
	assert.Equal(t, MagnetState(1), MagnetWeak)
	assert.Equal(t, MagnetState(2), MagnetNormal)
	assert.Equal(t, MagnetState(3), MagnetStrong)
	assert.Equal(t, MagnetState(4), MagnetTooStrong)
	assert.True(t, MagnetNormal.Usable())
	assert.False(t, MagnetTooStrong.Usable())
	assert.Equal(t, "too weak", MagnetTooWeak.String())
}
