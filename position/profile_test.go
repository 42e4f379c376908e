package position

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testProfile = `
unit: deg
zpos: 90
mang: 180
conf:
  power_mode: lpm1
  hysteresis: 2lsb
  output_stage: pwm
  pwm_frequency: 920hz
  slow_filter: 4x
  fast_filter: 21lsb
  watchdog: "on"
`

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile(strings.NewReader(testProfile))
	require.NoError(t, err)
	assert.Equal(t, Degrees, p.Unit)
	require.NotNil(t, p.ZPosition)
	assert.Equal(t, 90.0, *p.ZPosition)
	assert.Nil(t, p.MPosition)
	require.NotNil(t, p.MaxAngle)
	assert.Equal(t, 180.0, *p.MaxAngle)
	require.NotNil(t, p.Configuration)
	assert.Equal(t, Configuration{
		PowerMode:    PowerLowMode1,
		Hysteresis:   Hysteresis2LSB,
		OutputStage:  OutputPWM,
		PWMFrequency: PWM920Hz,
		SlowFilter:   SlowFilter4x,
		FastFilter:   FastFilter21LSB,
		Watchdog:     WatchdogOn,
	}, *p.Configuration)
}

func TestLoadProfile_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "unit: raw\nzpoz: 10\n"},
		{"unknown unit", "unit: grad\n"},
		{"unknown enum", "conf:\n  output_stage: digital\n"},
		{"out of range number", "conf:\n  fast_filter: 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfile(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestAS5600_ApplyProfile(t *testing.T) {
	p, err := LoadProfile(strings.NewReader(testProfile))
	require.NoError(t, err)

	dev := &fakeDevice{}
	s := NewAS5600(dev)
	require.NoError(t, s.ApplyProfile(context.Background(), p))

	assert.Equal(t, [][]byte{
		{regZPOS, 0x04, 0x00},
		{regMANG, 0x08, 0x00},
		{regCONF, 0x36, 0xE9},
	}, dev.writes)
}

func TestConfiguration_YAMLRoundTrip(t *testing.T) {
	conf := Configuration{
		PowerMode:    PowerLowMode3,
		OutputStage:  OutputAnalogReduced,
		PWMFrequency: PWM230Hz,
		FastFilter:   FastFilter9LSB,
		Watchdog:     WatchdogOn,
	}
	var buf bytes.Buffer
	require.NoError(t, yaml.NewEncoder(&buf).Encode(conf))
	assert.Contains(t, buf.String(), "fast_filter: 9lsb")

	var got Configuration
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, conf, got)
}
