package i2c

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/rotary"
	"github.com/mklimuk/rotary/snsctx"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var (
	_ rotary.I2CBus                 = &GenericBus{}
	_ rotary.AddressableTransceiver = &GenericBus{}
)

// GenericBus is an I2C bus exposed by the host, e.g. /dev/i2c-1 on Linux boards.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return NewBus(bus), nil
}

// NewBus wraps an already opened periph bus.
func NewBus(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{
		bus: bus,
	}
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	snsctx.Dump(ctx, "i2c read", buffer)
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	snsctx.Dump(ctx, "i2c write", buffer)
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// TxToAddr writes w then reads r with a repeated start in between.
func (b *GenericBus) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	snsctx.Dump(ctx, "i2c tx write", w)
	err := b.bus.Tx(uint16(address), w, r)
	if err != nil {
		return fmt.Errorf("could not transfer on i2c bus %x: %w", address, err)
	}
	snsctx.Dump(ctx, "i2c tx read", r)
	return nil
}

func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	err := b.bus.SetSpeed(f)
	if err != nil {
		return fmt.Errorf("could not set i2c bus speed to %s: %w", f, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) String() string {
	return b.bus.String()
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
