//go:build tinygo

// as5600-fw streams the raw angle over the serial console of a TinyGo board.
//
//	tinygo flash -target pico ./cmd/as5600-fw
package main

import (
	"context"
	"machine"
	"time"

	"github.com/mklimuk/rotary/adapter"
	"github.com/mklimuk/rotary/position"
)

const interval = 5 * time.Millisecond

func main() {
	err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})
	if err != nil {
		println("i2c configure failed:", err.Error())
		return
	}
	ctx := context.Background()
	sensor := position.NewAS5600(adapter.NewTinyGoBus(machine.I2C0))
	for sensor.Init(ctx) != nil {
		println("waiting for as5600")
		time.Sleep(time.Second)
	}
	_ = position.Watch(ctx, rawAngle{sensor}, position.Raw, interval, func(r position.Reading) error {
		if r.Err != nil {
			println("read failed:", r.Err.Error())
			return nil
		}
		println(uint16(r.Value))
		return nil
	})
}

type rawAngle struct {
	s *position.AS5600
}

func (r rawAngle) ReadAngleIn(ctx context.Context, unit position.Unit) (float64, error) {
	return r.s.ReadRawAngleIn(ctx, unit)
}
