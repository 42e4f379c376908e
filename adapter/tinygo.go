package adapter

import (
	"context"
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/mklimuk/rotary"
	"github.com/mklimuk/rotary/snsctx"
)

var (
	_ rotary.I2CBus                 = &TinyGoBus{}
	_ rotary.AddressableTransceiver = &TinyGoBus{}
)

// TinyGoBus adapts a TinyGo machine I2C peripheral (or any drivers.I2C) to the
// sensor bus interface. The peripheral must already be configured.
type TinyGoBus struct {
	bus drivers.I2C
}

func NewTinyGoBus(bus drivers.I2C) *TinyGoBus {
	return &TinyGoBus{bus: bus}
}

func (b *TinyGoBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	snsctx.Dump(ctx, "tinygo write", buffer)
	if err := b.bus.Tx(uint16(address), buffer, nil); err != nil {
		return fmt.Errorf("could not write to %x: %w", address, err)
	}
	return nil
}

func (b *TinyGoBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := b.bus.Tx(uint16(address), nil, buffer); err != nil {
		return fmt.Errorf("could not read from %x: %w", address, err)
	}
	snsctx.Dump(ctx, "tinygo read", buffer)
	return nil
}

func (b *TinyGoBus) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	snsctx.Dump(ctx, "tinygo tx write", w)
	if err := b.bus.Tx(uint16(address), w, r); err != nil {
		return fmt.Errorf("could not transfer with %x: %w", address, err)
	}
	snsctx.Dump(ctx, "tinygo tx read", r)
	return nil
}

func (b *TinyGoBus) Release(ctx context.Context) error {
	return nil
}
