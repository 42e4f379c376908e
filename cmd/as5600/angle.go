package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/position"
)

var angleCmd = cli.Command{
	Name:    "angle",
	Aliases: []string{"a"},
	Usage:   "read the angle once or continuously",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "unit",
			Aliases: []string{"u"},
			Usage:   "raw, deg or rad",
			Value:   "raw",
		},
		&cli.BoolFlag{
			Name:  "scaled",
			Usage: "read the ANGLE register (ZPOS/MPOS/MANG applied) instead of RAW_ANGLE",
		},
		&cli.DurationFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "poll at the given interval until interrupted (e.g. 5ms)",
		},
	},
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		unit, err := position.ParseUnit(c.String("unit"))
		if err != nil {
			return console.Exit(console.ExitFailure, "%s", console.Red(err))
		}
		var sensor position.AngleSensor = rawAngleSensor{s}
		if c.Bool("scaled") {
			sensor = s
		}
		if !c.IsSet("watch") {
			v, err := sensor.ReadAngleIn(ctx, unit)
			if err != nil {
				return sensorError(s, "could not read angle", err)
			}
			console.PInfof(console.PictoCompass, "%s %s", console.White(formatAngle(v, unit)), unit)
			return nil
		}
		err = position.Watch(ctx, sensor, unit, c.Duration("watch"), func(r position.Reading) error {
			if r.Err != nil {
				console.Errorf("read failed: %s (%s)", r.Err, s.LastError())
				return nil
			}
			console.Print(formatAngle(r.Value, unit))
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return console.Exit(console.ExitFailure, "%s", console.Red(err))
		}
		return nil
	}),
}

// rawAngleSensor reads RAW_ANGLE, which is unaffected by the programmed range.
type rawAngleSensor struct {
	s *position.AS5600
}

func (r rawAngleSensor) ReadAngleIn(ctx context.Context, unit position.Unit) (float64, error) {
	return r.s.ReadRawAngleIn(ctx, unit)
}

func formatAngle(v float64, unit position.Unit) string {
	if unit == position.Raw {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
