package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/rotary"
	"github.com/mklimuk/rotary/snsctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

// MCP2221 HID commands
const (
	cmdStatus            byte = 0x10
	cmdGetI2CData        byte = 0x40
	cmdI2CWrite          byte = 0x90
	cmdI2CRead           byte = 0x91
	cmdI2CReadRepStart   byte = 0x93
	cmdI2CWriteNoStop    byte = 0x94
	statusCancelTransfer byte = 0x10
	getDataFailed        byte = 0x41
	maxTransferLen            = 60
)

var ErrCommandFailed = errors.New("command failed")

var (
	_ rotary.I2CBus                 = &MCP2221{}
	_ rotary.AddressableTransceiver = &MCP2221{}
)

// MCP2221 is a Microchip USB to I2C bridge driven over HID reports.
type MCP2221 struct {
	mx           sync.Mutex
	id           int
	request      []byte
	response     []byte
	responseWait time.Duration
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

type MCP2221Opt func(*MCP2221)

// WithDeviceIndex selects one of several attached bridges, in enumeration order.
func WithDeviceIndex(id int) MCP2221Opt {
	return func(d *MCP2221) {
		d.id = id
	}
}

func WithResponseWait(wait time.Duration) MCP2221Opt {
	return func(d *MCP2221) {
		d.responseWait = wait
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		id:           -1,
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Devices lists the attached MCP2221 bridges.
func Devices() []hid.DeviceInfo {
	return hid.Enumerate(VendorID, ProductID)
}

// Init checks that exactly one bridge (or the selected one) is reachable.
func (d *MCP2221) Init() error {
	devs := Devices()
	if len(devs) == 0 {
		return fmt.Errorf("MCP2221 device not found")
	}
	if d.id < 0 && len(devs) > 1 {
		return fmt.Errorf("ambiguous device identification: %d bridges attached", len(devs))
	}
	if d.id >= len(devs) {
		return fmt.Errorf("no device with id %d", d.id)
	}
	return nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.write(ctx, cmdI2CWrite, address, buffer)
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.read(ctx, cmdI2CRead, address, buffer)
}

// TxToAddr writes w without a stop condition and reads r after a repeated start.
func (d *MCP2221) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.write(ctx, cmdI2CWriteNoStop, address, w); err != nil {
		return err
	}
	return d.read(ctx, cmdI2CReadRepStart, address, r)
}

func (d *MCP2221) write(ctx context.Context, cmd, address byte, buffer []byte) error {
	d.resetBuffers()
	if err := encodeTransfer(d.request, cmd, address<<1, buffer); err != nil {
		return err
	}
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	// write could not be performed
	if d.response[1] == 0x01 {
		slog.DebugContext(ctx, "adapter busy", "address", address)
		return rotary.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) read(ctx context.Context, cmd, address byte, buffer []byte) error {
	d.resetBuffers()
	if err := encodeTransfer(d.request, cmd, address<<1|1, nil); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	if d.response[1] == 0x01 {
		return rotary.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdGetI2CData
	err = d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	return decodeReadData(d.response, buffer)
}

// encodeTransfer fills an I2C transfer report: command, little-endian length, 8-bit
// bus address and the payload.
func encodeTransfer(request []byte, cmd, wireAddress byte, payload []byte) error {
	if len(payload) > maxTransferLen {
		return fmt.Errorf("transfer of %d bytes exceeds the %d byte report", len(payload), maxTransferLen)
	}
	request[0] = cmd
	binary.LittleEndian.PutUint16(request[1:3], uint16(len(payload)))
	request[3] = wireAddress
	copy(request[4:], payload)
	return nil
}

// decodeReadData copies the bytes returned by a Get I2C Data report into buffer.
func decodeReadData(response []byte, buffer []byte) error {
	if response[1] == getDataFailed {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if response[3] == 127 || int(response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d: %w", len(buffer), response[3], rotary.ErrShortRead)
	}
	copy(buffer, response[4:])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatus
	err := d.send(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	return err
}

// ReleaseBus cancels a pending transfer, freeing a bus left held by a failed transaction.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.releaseBus(ctx)
}

func (d *MCP2221) releaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatus
	d.request[2] = statusCancelTransfer
	err := d.send(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) open() (*hid.Device, error) {
	devs := Devices()
	if len(devs) > 1 && d.id < 0 {
		return nil, fmt.Errorf("ambiguous device identification")
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("MCP2221 device not found")
	}
	idx := 0
	if d.id >= 0 {
		if d.id >= len(devs) {
			return nil, fmt.Errorf("no device with id %d", d.id)
		}
		idx = d.id
	}
	dev, err := devs[idx].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (d *MCP2221) send(ctx context.Context, response bool) error {
	dev, err := d.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			slog.DebugContext(ctx, "could not close hid device", "error", err)
		}
	}()
	ctx = snsctx.SetBusName(ctx, "mcp2221")
	snsctx.Dump(ctx, "sending message to adapter", d.request)
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d: %w", n, rotary.ErrShortWrite)
	}
	if !response {
		return nil
	}
	timer := time.NewTimer(d.responseWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d: %w", n, rotary.ErrShortRead)
	}
	snsctx.Dump(ctx, "read message from adapter", d.response)
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
