package adapter

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/rotary"
	"github.com/mklimuk/rotary/snsctx"
)

var _ rotary.I2CBus = &GobotBus{}

type openFunc func(address byte) (io.ReadWriter, error)

// GobotBus drives devices through any gobot platform adaptor with I2C support
// (e.g. the NanoPi NEO adaptor). Connections are opened lazily per device address.
type GobotBus struct {
	mx    sync.Mutex
	bus   int
	open  openFunc
	conns map[byte]io.ReadWriter
}

type GobotBusOpt func(*GobotBus)

func WithBus(bus int) GobotBusOpt {
	return func(b *GobotBus) {
		b.bus = bus
	}
}

// NewGobotBus uses the connector's default bus unless WithBus is given.
func NewGobotBus(connector i2c.Connector, opts ...GobotBusOpt) *GobotBus {
	b := &GobotBus{
		bus:   connector.DefaultI2cBus(),
		conns: map[byte]io.ReadWriter{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.open = func(address byte) (io.ReadWriter, error) {
		return connector.GetI2cConnection(int(address), b.bus)
	}
	return b
}

func (b *GobotBus) connection(address byte) (io.ReadWriter, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.open(address)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %x on bus %d: %w", address, b.bus, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.connection(address)
	if err != nil {
		return err
	}
	snsctx.Dump(ctx, "gobot write", buffer)
	n, err := c.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("wrote %d of %d bytes: %w", n, len(buffer), rotary.ErrShortWrite)
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("read %d of %d bytes: %w", n, len(buffer), rotary.ErrShortRead)
	}
	snsctx.Dump(ctx, "gobot read", buffer)
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close closes every connection opened so far.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var first error
	for addr, c := range b.conns {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil && first == nil {
				first = fmt.Errorf("could not close connection to %x: %w", addr, err)
			}
		}
		delete(b.conns, addr)
	}
	return first
}
