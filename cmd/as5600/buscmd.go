package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/rotary/adapter"
	"github.com/mklimuk/rotary/cmd/as5600/console"
)

type bridgeInfo struct {
	Index   int    `yaml:"index"`
	Path    string `yaml:"path"`
	Serial  string `yaml:"serial,omitempty"`
	Product string `yaml:"product,omitempty"`
}

var busCmd = cli.Command{
	Name:  "bus",
	Usage: "inspect and recover the MCP2221 bridge",
	Subcommands: []*cli.Command{
		&busDetectCmd,
		&busStatusCmd,
		&busReleaseCmd,
	},
}

var busDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list attached MCP2221 bridges",
	Action: func(c *cli.Context) error {
		devs := adapter.Devices()
		if len(devs) == 0 {
			return console.Exit(console.ExitBus, "no MCP2221 bridge found")
		}
		out := make([]bridgeInfo, 0, len(devs))
		for i, d := range devs {
			out = append(out, bridgeInfo{Index: i, Path: d.Path, Serial: d.Serial, Product: d.Product})
		}
		return encodeYAML(out)
	},
}

var busStatusCmd = cli.Command{
	Name:  "status",
	Usage: "show the bridge I2C engine state",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithDeviceIndex(c.Int("index")))
		status, err := a.Status(commandContext(c))
		if err != nil {
			return console.Exit(console.ExitBus, "adapter communication error: %s", console.Red(err))
		}
		return encodeYAML(status)
	},
}

var busReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a pending transfer and free the bus",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithDeviceIndex(c.Int("index")))
		status, err := a.ReleaseBus(commandContext(c))
		if err != nil {
			return console.Exit(console.ExitBus, "adapter communication error: %s", console.Red(err))
		}
		return encodeYAML(status)
	},
}
