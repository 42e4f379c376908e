package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/position"
)

type rangeRegisters struct {
	Unit      position.Unit `yaml:"unit"`
	ZPosition float64       `yaml:"zpos"`
	MPosition float64       `yaml:"mpos"`
	MaxAngle  float64       `yaml:"mang"`
}

var unitFlag = &cli.StringFlag{
	Name:    "unit",
	Aliases: []string{"u"},
	Usage:   "raw, deg or rad",
	Value:   "raw",
}

var positionCmd = cli.Command{
	Name:    "position",
	Aliases: []string{"pos"},
	Usage:   "read and write the start, stop and max angle registers",
	Subcommands: []*cli.Command{
		&positionGetCmd,
		&positionSetCmd,
	},
}

var positionGetCmd = cli.Command{
	Name:  "get",
	Flags: []cli.Flag{unitFlag},
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		unit, err := position.ParseUnit(c.String("unit"))
		if err != nil {
			return console.Exit(console.ExitFailure, "%s", console.Red(err))
		}
		out := rangeRegisters{Unit: unit}
		if out.ZPosition, err = s.GetZPositionIn(ctx, unit); err != nil {
			return sensorError(s, "could not read zpos", err)
		}
		if out.MPosition, err = s.GetMPositionIn(ctx, unit); err != nil {
			return sensorError(s, "could not read mpos", err)
		}
		if out.MaxAngle, err = s.GetMaxAngleIn(ctx, unit); err != nil {
			return sensorError(s, "could not read mang", err)
		}
		return encodeYAML(out)
	}),
}

var positionSetters = map[string]func(*position.AS5600, context.Context, position.Unit, float64) error{
	"zpos": (*position.AS5600).SetZPositionIn,
	"mpos": (*position.AS5600).SetMPositionIn,
	"mang": (*position.AS5600).SetMaxAngleIn,
}

var positionSetCmd = cli.Command{
	Name:      "set",
	ArgsUsage: "zpos|mpos|mang <value>",
	Flags:     []cli.Flag{unitFlag},
	Before: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(console.ExitFailure, "expected zpos|mpos|mang <value>")
		}
		if _, ok := positionSetters[c.Args().Get(0)]; !ok {
			return console.Exit(console.ExitFailure, "unknown register %q", c.Args().Get(0))
		}
		return nil
	},
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		unit, err := position.ParseUnit(c.String("unit"))
		if err != nil {
			return console.Exit(console.ExitFailure, "%s", console.Red(err))
		}
		reg := c.Args().Get(0)
		value, err := strconv.ParseFloat(c.Args().Get(1), 64)
		if err != nil {
			return console.Exit(console.ExitFailure, "invalid value: %s", console.Red(err))
		}
		if err := positionSetters[reg](s, ctx, unit, value); err != nil {
			return sensorError(s, "could not set "+reg, err)
		}
		console.PInfof(console.PictoPin, "%s set to %s %s", reg, console.White(c.Args().Get(1)), unit)
		return nil
	}),
}
