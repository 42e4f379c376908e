package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/position"
)

type sensorStatus struct {
	Magnet    string `yaml:"magnet"`
	Usable    bool   `yaml:"usable"`
	AGC       byte   `yaml:"agc"`
	Magnitude uint16 `yaml:"magnitude"`
	BurnCount byte   `yaml:"zmco"`
}

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "show magnet state, AGC, magnitude and burn counter",
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		magnet, err := s.GetStatus(ctx)
		if err != nil {
			return sensorError(s, "could not read status", err)
		}
		agc, err := s.ReadAGC(ctx)
		if err != nil {
			return sensorError(s, "could not read agc", err)
		}
		magnitude, err := s.ReadMagnitude(ctx)
		if err != nil {
			return sensorError(s, "could not read magnitude", err)
		}
		zmco, err := s.GetZMCO(ctx)
		if err != nil {
			return sensorError(s, "could not read burn counter", err)
		}
		if !magnet.Usable() {
			console.Warnf("%s magnet %s, readings are unreliable", console.PictoMagnet, console.Yellow(magnet))
		}
		return encodeYAML(sensorStatus{
			Magnet:    magnet.String(),
			Usable:    magnet.Usable(),
			AGC:       agc,
			Magnitude: magnitude,
			BurnCount: zmco,
		})
	}),
}

func encodeYAML(v any) error {
	enc := yaml.NewEncoder(console.Writer())
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		return console.Exit(console.ExitFailure, "encoding error: %s", console.Red(err))
	}
	return nil
}
