package position

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/mklimuk/rotary"
)

var (
	ErrRegisterRead  = errors.New("as5600: register read failed")
	ErrRegisterWrite = errors.New("as5600: register write failed")
	ErrInit          = errors.New("as5600: initialization failed")
	ErrEmptyBuffer   = errors.New("as5600: empty register buffer")
	ErrFieldRange    = errors.New("as5600: configuration value out of range")
	ErrInvalidAngle  = errors.New("as5600: invalid angle")
)

// ErrorCode is the outcome of the most recent driver operation.
type ErrorCode int8

const (
	CodeOK            ErrorCode = 0
	CodeRegisterRead  ErrorCode = -1
	CodeRegisterWrite ErrorCode = -2
	CodeInit          ErrorCode = -3
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeRegisterRead:
		return "register read error"
	case CodeRegisterWrite:
		return "register write error"
	case CodeInit:
		return "init error"
	}
	return fmt.Sprintf("error code %d", int8(c))
}

// AS5600 represents an ams AS5600 12-bit magnetic rotary position sensor.
// See: https://ams.com/documents/20143/36005/AS5600_DS000365_5-00.pdf
//
// Usage: Instantiate with NewAS5600, then call ReadAngle or ReadAngleIn.
// Every operation records its outcome, which LastError returns.
//
// Operations on one instance are serialized, so read-modify-write of the CONF
// sub-fields cannot interleave. Two instances bound to the same device still race.
type AS5600 struct {
	mx        sync.Mutex
	transport rotary.I2CBus
	address   byte
	lastError ErrorCode
}

type AS5600Config struct {
	Address byte
}

type AS5600ConfigOption func(*AS5600Config)

// WithAddress overrides the bus address, for parts behind an address translator.
func WithAddress(address byte) AS5600ConfigOption {
	return func(c *AS5600Config) {
		c.Address = address
	}
}

// NewAS5600 binds a sensor to the given transport. The transport is never closed by the
// driver.
func NewAS5600(trans rotary.I2CBus, opts ...AS5600ConfigOption) *AS5600 {
	config := &AS5600Config{
		Address: DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	return &AS5600{transport: trans, address: config.Address}
}

// LastError returns the outcome of the previous operation.
func (s *AS5600) LastError() ErrorCode {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.lastError
}

// Init probes the STATUS register to confirm the device answers on the bus.
func (s *AS5600) Init(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.lastError = CodeOK
	buf := make([]byte, 1)
	if err := s.readRegister(ctx, regStatus, buf); err != nil {
		s.lastError = CodeInit
		return fmt.Errorf("%w: could not probe device at %#04x: %w", ErrInit, s.address, err)
	}
	slog.DebugContext(ctx, "as5600 ready", "address", fmt.Sprintf("%#04x", s.address), "magnet", decodeMagnetState(buf[0]))
	return nil
}

// GetZMCO returns how many times ZPOS and MPOS have been burned (0-3).
func (s *AS5600) GetZMCO(ctx context.Context) (byte, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	v, err := s.readByte(ctx, regZMCO)
	return v & zmcoMask, err
}

// SetConfiguration writes all seven CONF sub-fields in one transaction.
func (s *AS5600) SetConfiguration(ctx context.Context, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	b := conf.bytes()
	return s.write(ctx, regCONF, b[0], b[1])
}

func (s *AS5600) GetConfiguration(ctx context.Context) (Configuration, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	var b [2]byte
	if err := s.read(ctx, regCONF, b[:]); err != nil {
		return Configuration{}, err
	}
	return parseConfiguration(b), nil
}

func (s *AS5600) SetPowerMode(ctx context.Context, mode PowerMode) error {
	return s.setField(ctx, fieldPowerMode, byte(mode), powerModeNames)
}

func (s *AS5600) GetPowerMode(ctx context.Context) (PowerMode, error) {
	v, err := s.getField(ctx, fieldPowerMode)
	return PowerMode(v), err
}

func (s *AS5600) SetHysteresis(ctx context.Context, hyst Hysteresis) error {
	return s.setField(ctx, fieldHysteresis, byte(hyst), hysteresisNames)
}

func (s *AS5600) GetHysteresis(ctx context.Context) (Hysteresis, error) {
	v, err := s.getField(ctx, fieldHysteresis)
	return Hysteresis(v), err
}

func (s *AS5600) SetOutputMode(ctx context.Context, out OutputStage) error {
	return s.setField(ctx, fieldOutputStage, byte(out), outputStageNames)
}

func (s *AS5600) GetOutputMode(ctx context.Context) (OutputStage, error) {
	v, err := s.getField(ctx, fieldOutputStage)
	return OutputStage(v), err
}

func (s *AS5600) SetPWMFrequency(ctx context.Context, freq PWMFrequency) error {
	return s.setField(ctx, fieldPWMFrequency, byte(freq), pwmFrequencyNames)
}

func (s *AS5600) GetPWMFrequency(ctx context.Context) (PWMFrequency, error) {
	v, err := s.getField(ctx, fieldPWMFrequency)
	return PWMFrequency(v), err
}

func (s *AS5600) SetSlowFilter(ctx context.Context, filter SlowFilter) error {
	return s.setField(ctx, fieldSlowFilter, byte(filter), slowFilterNames)
}

func (s *AS5600) GetSlowFilter(ctx context.Context) (SlowFilter, error) {
	v, err := s.getField(ctx, fieldSlowFilter)
	return SlowFilter(v), err
}

func (s *AS5600) SetFastFilter(ctx context.Context, filter FastFilter) error {
	return s.setField(ctx, fieldFastFilter, byte(filter), fastFilterNames)
}

func (s *AS5600) GetFastFilter(ctx context.Context) (FastFilter, error) {
	v, err := s.getField(ctx, fieldFastFilter)
	return FastFilter(v), err
}

func (s *AS5600) SetWatchdog(ctx context.Context, wd Watchdog) error {
	return s.setField(ctx, fieldWatchdog, byte(wd), watchdogNames)
}

func (s *AS5600) GetWatchdog(ctx context.Context) (Watchdog, error) {
	v, err := s.getField(ctx, fieldWatchdog)
	return Watchdog(v), err
}

// GetStatus reports the magnet field strength. Undocumented status codes, including the
// no-magnet case, report MagnetTooWeak.
func (s *AS5600) GetStatus(ctx context.Context) (MagnetState, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	v, err := s.readByte(ctx, regStatus)
	if err != nil {
		return MagnetTooWeak, err
	}
	return decodeMagnetState(v), nil
}

// SetZPosition sets the start angle. The top four bits are dropped by the device.
func (s *AS5600) SetZPosition(ctx context.Context, pos uint16) error {
	return s.writeUint16(ctx, regZPOS, pos)
}

func (s *AS5600) GetZPosition(ctx context.Context) (uint16, error) {
	return s.readUint16(ctx, regZPOS)
}

func (s *AS5600) SetZPositionIn(ctx context.Context, unit Unit, pos float64) error {
	raw, err := toRaw(unit, pos)
	if err != nil {
		return err
	}
	return s.SetZPosition(ctx, raw)
}

func (s *AS5600) GetZPositionIn(ctx context.Context, unit Unit) (float64, error) {
	raw, err := s.GetZPosition(ctx)
	return unit.FromRaw(raw), err
}

// SetMPosition sets the stop angle; the output range spans ZPOS to MPOS.
func (s *AS5600) SetMPosition(ctx context.Context, pos uint16) error {
	return s.writeUint16(ctx, regMPOS, pos)
}

func (s *AS5600) GetMPosition(ctx context.Context) (uint16, error) {
	return s.readUint16(ctx, regMPOS)
}

func (s *AS5600) SetMPositionIn(ctx context.Context, unit Unit, pos float64) error {
	raw, err := toRaw(unit, pos)
	if err != nil {
		return err
	}
	return s.SetMPosition(ctx, raw)
}

func (s *AS5600) GetMPositionIn(ctx context.Context, unit Unit) (float64, error) {
	raw, err := s.GetMPosition(ctx)
	return unit.FromRaw(raw), err
}

// SetMaxAngle sets the output range as an offset from ZPOS, used instead of MPOS.
func (s *AS5600) SetMaxAngle(ctx context.Context, angle uint16) error {
	return s.writeUint16(ctx, regMANG, angle)
}

func (s *AS5600) GetMaxAngle(ctx context.Context) (uint16, error) {
	return s.readUint16(ctx, regMANG)
}

func (s *AS5600) SetMaxAngleIn(ctx context.Context, unit Unit, angle float64) error {
	raw, err := toRaw(unit, angle)
	if err != nil {
		return err
	}
	return s.SetMaxAngle(ctx, raw)
}

func (s *AS5600) GetMaxAngleIn(ctx context.Context, unit Unit) (float64, error) {
	raw, err := s.GetMaxAngle(ctx)
	return unit.FromRaw(raw), err
}

// ReadRawAngle reads the unscaled angle, independent of ZPOS/MPOS/MANG.
func (s *AS5600) ReadRawAngle(ctx context.Context) (uint16, error) {
	return s.readUint16(ctx, regRawAngle)
}

func (s *AS5600) ReadRawAngleIn(ctx context.Context, unit Unit) (float64, error) {
	raw, err := s.ReadRawAngle(ctx)
	return unit.FromRaw(raw), err
}

// ReadAngle reads the angle scaled to the configured start/stop range.
func (s *AS5600) ReadAngle(ctx context.Context) (uint16, error) {
	return s.readUint16(ctx, regAngle)
}

func (s *AS5600) ReadAngleIn(ctx context.Context, unit Unit) (float64, error) {
	raw, err := s.ReadAngle(ctx)
	return unit.FromRaw(raw), err
}

// ReadAGC reads the automatic gain control value: 0-255 at 5V, 0-128 at 3.3V.
func (s *AS5600) ReadAGC(ctx context.Context) (byte, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.readByte(ctx, regAGC)
}

func (s *AS5600) ReadMagnitude(ctx context.Context) (uint16, error) {
	return s.readUint16(ctx, regMagnitude)
}

// BurnAngle permanently stores ZPOS and MPOS. The device accepts it at most 3 times;
// GetZMCO tells how many remain. The driver does not guard against repeats.
func (s *AS5600) BurnAngle(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	slog.WarnContext(ctx, "as5600 burning angle registers", "address", fmt.Sprintf("%#04x", s.address))
	return s.write(ctx, regBurn, cmdBurnAngle)
}

// BurnSetting permanently stores MANG and CONF. The device accepts it once and only
// while ZMCO is 0; the driver does not check either condition.
func (s *AS5600) BurnSetting(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	slog.WarnContext(ctx, "as5600 burning settings", "address", fmt.Sprintf("%#04x", s.address))
	return s.write(ctx, regBurn, cmdBurnSettings)
}

func (s *AS5600) setField(ctx context.Context, f field, v byte, names []string) error {
	if err := f.check(v, names); err != nil {
		return err
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	cur, err := s.readByte(ctx, f.reg)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", f.name, err)
	}
	err = s.write(ctx, f.reg, f.insert(cur, v))
	if err != nil {
		return fmt.Errorf("could not write %s: %w", f.name, err)
	}
	return nil
}

func (s *AS5600) getField(ctx context.Context, f field) (byte, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	cur, err := s.readByte(ctx, f.reg)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", f.name, err)
	}
	return f.extract(cur), nil
}

func (s *AS5600) writeUint16(ctx context.Context, reg byte, v uint16) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return s.write(ctx, reg, b[:]...)
}

func (s *AS5600) readUint16(ctx context.Context, reg byte) (uint16, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	var b [2]byte
	if err := s.read(ctx, reg, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// readByte expects the caller to hold s.mx.
func (s *AS5600) readByte(ctx context.Context, reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := s.read(ctx, reg, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// write and read record the outcome in lastError and expect the caller to hold s.mx.
func (s *AS5600) write(ctx context.Context, reg byte, data ...byte) error {
	s.lastError = CodeOK
	if err := s.writeRegister(ctx, reg, data); err != nil {
		s.lastError = CodeRegisterWrite
		return fmt.Errorf("%w (reg %#04x): %w", ErrRegisterWrite, reg, err)
	}
	return nil
}

func (s *AS5600) read(ctx context.Context, reg byte, buf []byte) error {
	s.lastError = CodeOK
	if err := s.readRegister(ctx, reg, buf); err != nil {
		s.lastError = CodeRegisterRead
		return fmt.Errorf("%w (reg %#04x): %w", ErrRegisterRead, reg, err)
	}
	return nil
}

// writeRegister sends [reg, data...] as a single bus write.
func (s *AS5600) writeRegister(ctx context.Context, reg byte, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyBuffer
	}
	frame := make([]byte, 0, len(data)+1)
	frame = append(frame, reg)
	frame = append(frame, data...)
	slog.DebugContext(ctx, "as5600 register write", "reg", fmt.Sprintf("%#04x", reg), "data", fmt.Sprintf("% x", data))
	return s.transport.WriteToAddr(ctx, s.address, frame)
}

// readRegister selects reg and reads len(buf) bytes. Transports able to hold the bus
// do both in one repeated-start transaction.
func (s *AS5600) readRegister(ctx context.Context, reg byte, buf []byte) error {
	if len(buf) == 0 {
		return ErrEmptyBuffer
	}
	if tx, ok := s.transport.(rotary.AddressableTransceiver); ok {
		if err := tx.TxToAddr(ctx, s.address, []byte{reg}, buf); err != nil {
			return err
		}
	} else {
		if err := s.transport.WriteToAddr(ctx, s.address, []byte{reg}); err != nil {
			return fmt.Errorf("could not select register: %w", err)
		}
		if err := s.transport.ReadFromAddr(ctx, s.address, buf); err != nil {
			return err
		}
	}
	slog.DebugContext(ctx, "as5600 register read", "reg", fmt.Sprintf("%#04x", reg), "data", fmt.Sprintf("% x", buf))
	return nil
}

func toRaw(unit Unit, v float64) (uint16, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAngle, v)
	}
	return unit.ToRaw(v), nil
}
