package console

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Exit codes returned by the as5600 tool.
const (
	ExitFailure   = 1
	ExitBus       = 2
	ExitSensor    = 3
	ExitCancelled = 4
)

func Exit(code int, msg string, args ...interface{}) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(msg, args...), code)
}
