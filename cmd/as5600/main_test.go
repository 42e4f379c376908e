package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/position"
)

// registerBus is an in-memory AS5600 register file.
type registerBus struct {
	regs    [256]byte
	pointer byte
}

func (b *registerBus) WriteToAddr(_ context.Context, _ byte, buf []byte) error {
	b.pointer = buf[0]
	for i, v := range buf[1:] {
		b.regs[int(b.pointer)+i] = v
	}
	return nil
}

func (b *registerBus) ReadFromAddr(_ context.Context, _ byte, buf []byte) error {
	copy(buf, b.regs[b.pointer:])
	return nil
}

func (b *registerBus) Release(context.Context) error { return nil }

func TestRun_UnknownAdapter(t *testing.T) {
	assert.Equal(t, console.ExitBus, run([]string{"as5600", "--adapter", "spi", "status"}))
}

func TestRun_ConfigSetArgs(t *testing.T) {
	assert.Equal(t, console.ExitFailure, run([]string{"as5600", "config", "set", "power_mode"}))
	assert.Equal(t, console.ExitFailure, run([]string{"as5600", "config", "set", "gain", "2"}))
	assert.Equal(t, console.ExitFailure, run([]string{"as5600", "position", "set", "zero", "2"}))
}

func TestConfigSetters_MatchYAMLKeys(t *testing.T) {
	out, err := yaml.Marshal(position.Configuration{})
	require.NoError(t, err)
	var keys map[string]string
	require.NoError(t, yaml.Unmarshal(out, &keys))
	for key := range keys {
		assert.Contains(t, configSetters, key)
	}
	assert.Len(t, configSetters, len(keys))
}

func TestConfigSetters(t *testing.T) {
	bus := &registerBus{}
	s := position.NewAS5600(bus)
	ctx := context.Background()

	require.NoError(t, configSetters["pwm_frequency"](ctx, s, "920hz"))
	require.NoError(t, configSetters["watchdog"](ctx, s, "on"))
	require.NoError(t, configSetters["slow_filter"](ctx, s, "2"))
	assert.Equal(t, byte(0xC0), bus.regs[0x08])
	assert.Equal(t, byte(0x22), bus.regs[0x07])

	assert.Error(t, configSetters["hysteresis"](ctx, s, "4lsb"))
}

func TestPositionSetters(t *testing.T) {
	bus := &registerBus{}
	s := position.NewAS5600(bus)
	ctx := context.Background()

	require.NoError(t, positionSetters["mang"](s, ctx, position.Degrees, 180))
	assert.Equal(t, []byte{0x08, 0x00}, bus.regs[0x05:0x07])
}

func TestFormatAngle(t *testing.T) {
	assert.Equal(t, "2048", formatAngle(2048, position.Raw))
	assert.Equal(t, "180.0000", formatAngle(180, position.Degrees))
}
