package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/rotary/cmd/as5600/console"
	"github.com/mklimuk/rotary/position"
)

const maxAngleBurns = 3

var yesFlag = &cli.BoolFlag{
	Name:  "yes",
	Usage: "skip the confirmation prompt",
}

var burnCmd = cli.Command{
	Name:  "burn",
	Usage: "permanently store registers in OTP memory",
	Subcommands: []*cli.Command{
		&burnAngleCmd,
		&burnSettingCmd,
	},
}

var burnAngleCmd = cli.Command{
	Name:  "angle",
	Usage: "burn ZPOS and MPOS (at most 3 times)",
	Flags: []cli.Flag{yesFlag},
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		zmco, err := s.GetZMCO(ctx)
		if err != nil {
			return sensorError(s, "could not read burn counter", err)
		}
		if zmco >= maxAngleBurns {
			return console.Exit(console.ExitSensor, "%s angle already burned %d times", console.PictoStop, zmco)
		}
		magnet, err := s.GetStatus(ctx)
		if err != nil {
			return sensorError(s, "could not read status", err)
		}
		if !magnet.Usable() {
			return console.Exit(console.ExitSensor, "%s magnet %s, refusing to burn", console.PictoMagnet, console.Red(magnet))
		}
		if err := confirm(c, "burn ZPOS/MPOS (%d of %d burns left)?", maxAngleBurns-zmco, maxAngleBurns); err != nil {
			return err
		}
		if err := s.BurnAngle(ctx); err != nil {
			return sensorError(s, "burn failed", err)
		}
		console.PInfof(console.PictoFire, "angle burned")
		return nil
	}),
}

var burnSettingCmd = cli.Command{
	Name:  "setting",
	Usage: "burn MANG and CONF (once, only before any angle burn)",
	Flags: []cli.Flag{yesFlag},
	Action: withSensor(func(ctx context.Context, c *cli.Context, s *position.AS5600) error {
		zmco, err := s.GetZMCO(ctx)
		if err != nil {
			return sensorError(s, "could not read burn counter", err)
		}
		if zmco != 0 {
			console.Warnf("ZMCO is %d; the device ignores a settings burn after an angle burn", zmco)
		}
		if err := confirm(c, "burn MANG/CONF? this can only be done once"); err != nil {
			return err
		}
		if err := s.BurnSetting(ctx); err != nil {
			return sensorError(s, "burn failed", err)
		}
		console.PInfof(console.PictoFire, "settings burned")
		return nil
	}),
}

func confirm(c *cli.Context, question string, args ...interface{}) error {
	if c.Bool("yes") {
		return nil
	}
	ok, err := console.Confirm(fmt.Sprintf(question, args...))
	if err != nil {
		return console.Exit(console.ExitCancelled, "prompt failed: %s", err)
	}
	if !ok {
		return console.Exit(console.ExitCancelled, "cancelled")
	}
	return nil
}
