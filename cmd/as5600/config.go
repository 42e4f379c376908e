package main

import (
	"context"
	"encoding"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/position"
)

type fieldSetter func(ctx context.Context, s *position.AS5600, value string) error

func enumSetter[T any, P interface {
	*T
	encoding.TextUnmarshaler
}](set func(*position.AS5600, context.Context, T) error) fieldSetter {
	return func(ctx context.Context, s *position.AS5600, value string) error {
		var v T
		if err := P(&v).UnmarshalText([]byte(value)); err != nil {
			return err
		}
		return set(s, ctx, v)
	}
}

// keyed like the YAML configuration block
var configSetters = map[string]fieldSetter{
	"power_mode":    enumSetter[position.PowerMode]((*position.AS5600).SetPowerMode),
	"hysteresis":    enumSetter[position.Hysteresis]((*position.AS5600).SetHysteresis),
	"output_stage":  enumSetter[position.OutputStage]((*position.AS5600).SetOutputMode),
	"pwm_frequency": enumSetter[position.PWMFrequency]((*position.AS5600).SetPWMFrequency),
	"slow_filter":   enumSetter[position.SlowFilter]((*position.AS5600).SetSlowFilter),
	"fast_filter":   enumSetter[position.FastFilter]((*position.AS5600).SetFastFilter),
	"watchdog":      enumSetter[position.Watchdog]((*position.AS5600).SetWatchdog),
}

func configFields() []string {
	names := make([]string, 0, len(configSetters))
	for name := range configSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var configCmd = cli.Command{
	Name:    "config",
	Aliases: []string{"conf"},
	Usage:   "read and write the CONF register",
	Subcommands: []*cli.Command{
		&configGetCmd,
		&configSetCmd,
		&configApplyCmd,
	},
}

var configGetCmd = cli.Command{
	Name:   "get",
	Usage:  "print the configuration as YAML",
	Action: withSensor(configGet),
}

func configGet(ctx context.Context, c *cli.Context, s *position.AS5600) error {
	conf, err := s.GetConfiguration(ctx)
	if err != nil {
		return sensorError(s, "could not read configuration", err)
	}
	return encodeYAML(conf)
}

var configSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set a single configuration field",
	ArgsUsage: "<field> <value>",
	Before: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(console.ExitFailure, "expected <field> <value>; fields: %v", configFields())
		}
		if _, ok := configSetters[c.Args().Get(0)]; !ok {
			return console.Exit(console.ExitFailure, "unknown field %q; fields: %v", c.Args().Get(0), configFields())
		}
		return nil
	},
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		name, value := c.Args().Get(0), c.Args().Get(1)
		if err := configSetters[name](ctx, s, value); err != nil {
			return sensorError(s, fmt.Sprintf("could not set %s", name), err)
		}
		return configGet(ctx, c, s)
	}),
}

var configApplyCmd = cli.Command{
	Name:      "apply",
	Usage:     "write a YAML profile to the volatile registers",
	ArgsUsage: "<profile.yaml>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(console.ExitFailure, "expected a profile file")
		}
		f, err := os.Open(c.Args().First())
		if err != nil {
			return console.Exit(console.ExitFailure, "could not open profile: %s", console.Red(err))
		}
		defer f.Close()
		profile, err := position.LoadProfile(f)
		if err != nil {
			return console.Exit(console.ExitFailure, "%s", console.Red(err))
		}
		return withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
			if err := s.ApplyProfile(ctx, profile); err != nil {
				return sensorError(s, "could not apply profile", err)
			}
			console.PInfof(console.PictoPin, "profile %s applied", console.White(c.Args().First()))
			return nil
		})(c)
	},
}
