package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/rotary"
	"github.com/mklimuk/rotary/adapter"
	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/i2c"
	"github.com/mklimuk/rotary/position"
	"github.com/mklimuk/rotary/snsctx"
)

const (
	adapterMCP2221 = "mcp2221"
	adapterGeneric = "generic"
	adapterGobot   = "gobot"
)

// session is an initialized sensor on an open bus.
type session struct {
	sensor *position.AS5600
	close  func() error
}

func (s *session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func commandContext(c *cli.Context) context.Context {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	return snsctx.SetBusName(ctx, c.String("adapter"))
}

func openBus(c *cli.Context) (rotary.I2CBus, func() error, error) {
	switch name := c.String("adapter"); name {
	case adapterMCP2221:
		a := adapter.NewMCP2221(adapter.WithDeviceIndex(c.Int("index")))
		if err := a.Init(); err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return a, nil, nil
	case adapterGeneric:
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, nil, err
		}
		if c.IsSet("speed") {
			if err := bus.SetSpeed(physic.Frequency(c.Int("speed")) * physic.KiloHertz); err != nil {
				_ = bus.Close()
				return nil, nil, err
			}
		}
		return bus, bus.Close, nil
	case adapterGobot:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		var opts []adapter.GobotBusOpt
		if c.IsSet("bus") {
			opts = append(opts, adapter.WithBus(c.Int("bus")))
		}
		bus := adapter.NewGobotBus(npi, opts...)
		return bus, func() error {
			return errors.Join(bus.Close(), npi.I2cBusAdaptor.Finalize())
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown adapter %q", name)
	}
}

// openSensor opens the selected bus and probes the sensor on it.
func openSensor(ctx context.Context, c *cli.Context) (*session, error) {
	bus, closer, err := openBus(c)
	if err != nil {
		return nil, console.Exit(console.ExitBus, "%s", console.Red(err))
	}
	s := &session{
		close:  closer,
		sensor: position.NewAS5600(bus, position.WithAddress(byte(c.Int("address")))),
	}
	if err := s.sensor.Init(ctx); err != nil {
		_ = s.Close()
		return nil, console.Exit(console.ExitSensor, "%s (%s)", console.Red(err), s.sensor.LastError())
	}
	return s, nil
}

// withSensor runs fn against an initialized sensor and closes the bus afterwards.
func withSensor(fn func(ctx context.Context, c *cli.Context, s *position.AS5600) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := commandContext(c)
		sess, err := openSensor(ctx, c)
		if err != nil {
			return err
		}
		defer func() {
			if err := sess.Close(); err != nil {
				console.Warnf("could not close bus: %s", err)
			}
		}()
		return fn(ctx, c, sess.sensor)
	}
}

func sensorError(s *position.AS5600, msg string, err error) cli.ExitCoder {
	return console.Exit(console.ExitSensor, "%s: %s (%s)", msg, console.Red(err), s.LastError())
}
