package rotary

import (
	"context"
	"errors"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrShortWrite and ErrShortRead are reported by transports that can observe how many
// bytes actually crossed the bus.
var (
	ErrShortWrite = errors.New("short i2c write")
	ErrShortRead  = errors.New("short i2c read")
)

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// AddressableTransceiver writes w and then reads into r within a single transaction,
// using a repeated start instead of a stop condition between the two phases.
type AddressableTransceiver interface {
	TxToAddr(ctx context.Context, address byte, w, r []byte) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}
