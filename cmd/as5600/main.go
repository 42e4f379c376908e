package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app := newApp()
	err := app.RunContext(ctx, args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			log.Printf("%v", err)
			return exerr.ExitCode()
		}
		log.Printf("unexpected error: %v", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "as5600"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "AS5600 magnetic rotary position sensor cli"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter: mcp2221, generic (linux i2c-dev) or gobot (NanoPi NEO)",
			Value:   adapterMCP2221,
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "i2c device for the generic adapter",
			Value: "/dev/i2c-1",
		},
		&cli.IntFlag{
			Name:  "bus",
			Usage: "i2c bus number for the gobot adapter (platform default if unset)",
		},
		&cli.IntFlag{
			Name:  "index",
			Usage: "MCP2221 bridge index when several are attached",
			Value: -1,
		},
		&cli.IntFlag{
			Name:  "address",
			Usage: "sensor i2c address",
			Value: 0x36,
		},
		&cli.IntFlag{
			Name:  "speed",
			Usage: "bus speed in kHz for the generic adapter (driver default if unset)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging and bus traffic dumps",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if ctx.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	// run maps exit codes, the default handler would call os.Exit
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Commands = cli.Commands{
		&angleCmd,
		&statusCmd,
		&configCmd,
		&positionCmd,
		&burnCmd,
		&busCmd,
	}
	return app
}
