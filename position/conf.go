package position

import (
	"fmt"
	"strconv"
	"strings"
)

// PowerMode selects the PM bits of CONF.
type PowerMode byte

const (
	PowerNormal PowerMode = iota
	PowerLowMode1
	PowerLowMode2
	PowerLowMode3
)

var powerModeNames = []string{"nom", "lpm1", "lpm2", "lpm3"}

func (m PowerMode) String() string { return enumName(powerModeNames, byte(m)) }

func (m PowerMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *PowerMode) UnmarshalText(text []byte) error {
	v, err := parseEnum("power mode", powerModeNames, text)
	*m = PowerMode(v)
	return err
}

// Hysteresis selects the HYST bits of CONF, in LSB of the output.
type Hysteresis byte

const (
	HysteresisOff Hysteresis = iota
	Hysteresis1LSB
	Hysteresis2LSB
	Hysteresis3LSB
)

var hysteresisNames = []string{"off", "1lsb", "2lsb", "3lsb"}

func (h Hysteresis) String() string { return enumName(hysteresisNames, byte(h)) }

func (h Hysteresis) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hysteresis) UnmarshalText(text []byte) error {
	v, err := parseEnum("hysteresis", hysteresisNames, text)
	*h = Hysteresis(v)
	return err
}

// OutputStage selects the OUTS bits of CONF.
type OutputStage byte

const (
	// OutputAnalogFull drives the OUT pin from GND to VDD.
	OutputAnalogFull OutputStage = iota
	// OutputAnalogReduced drives the OUT pin from 10% to 90% of VDD.
	OutputAnalogReduced
	OutputPWM
)

var outputStageNames = []string{"analog-full", "analog-reduced", "pwm"}

func (o OutputStage) String() string { return enumName(outputStageNames, byte(o)) }

func (o OutputStage) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *OutputStage) UnmarshalText(text []byte) error {
	v, err := parseEnum("output stage", outputStageNames, text)
	*o = OutputStage(v)
	return err
}

// PWMFrequency selects the PWMF bits of CONF.
type PWMFrequency byte

const (
	PWM115Hz PWMFrequency = iota
	PWM230Hz
	PWM460Hz
	PWM920Hz
)

var pwmFrequencyNames = []string{"115hz", "230hz", "460hz", "920hz"}

func (f PWMFrequency) String() string { return enumName(pwmFrequencyNames, byte(f)) }

func (f PWMFrequency) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *PWMFrequency) UnmarshalText(text []byte) error {
	v, err := parseEnum("pwm frequency", pwmFrequencyNames, text)
	*f = PWMFrequency(v)
	return err
}

// SlowFilter selects the SF bits of CONF.
type SlowFilter byte

const (
	SlowFilter16x SlowFilter = iota
	SlowFilter8x
	SlowFilter4x
	SlowFilter2x
)

var slowFilterNames = []string{"16x", "8x", "4x", "2x"}

func (f SlowFilter) String() string { return enumName(slowFilterNames, byte(f)) }

func (f SlowFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *SlowFilter) UnmarshalText(text []byte) error {
	v, err := parseEnum("slow filter", slowFilterNames, text)
	*f = SlowFilter(v)
	return err
}

// FastFilter selects the FTH bits of CONF. The encoding is not monotonic in LSB.
type FastFilter byte

const (
	FastFilterOff FastFilter = iota
	FastFilter6LSB
	FastFilter7LSB
	FastFilter9LSB
	FastFilter18LSB
	FastFilter21LSB
	FastFilter24LSB
	FastFilter10LSB
)

var fastFilterNames = []string{"off", "6lsb", "7lsb", "9lsb", "18lsb", "21lsb", "24lsb", "10lsb"}

func (f FastFilter) String() string { return enumName(fastFilterNames, byte(f)) }

func (f FastFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FastFilter) UnmarshalText(text []byte) error {
	v, err := parseEnum("fast filter", fastFilterNames, text)
	*f = FastFilter(v)
	return err
}

// Watchdog selects the WD bit of CONF.
type Watchdog byte

const (
	WatchdogOff Watchdog = iota
	WatchdogOn
)

var watchdogNames = []string{"off", "on"}

func (w Watchdog) String() string { return enumName(watchdogNames, byte(w)) }

func (w Watchdog) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Watchdog) UnmarshalText(text []byte) error {
	v, err := parseEnum("watchdog", watchdogNames, text)
	*w = Watchdog(v)
	return err
}

// Configuration mirrors the two bytes of the CONF register. The zero value is the
// factory default.
type Configuration struct {
	PowerMode    PowerMode    `yaml:"power_mode"`
	Hysteresis   Hysteresis   `yaml:"hysteresis"`
	OutputStage  OutputStage  `yaml:"output_stage"`
	PWMFrequency PWMFrequency `yaml:"pwm_frequency"`
	SlowFilter   SlowFilter   `yaml:"slow_filter"`
	FastFilter   FastFilter   `yaml:"fast_filter"`
	Watchdog     Watchdog     `yaml:"watchdog"`
}

// Validate reports the first sub-field holding a value the register cannot encode.
func (c Configuration) Validate() error {
	checks := []struct {
		f     field
		v     byte
		names []string
	}{
		{fieldPowerMode, byte(c.PowerMode), powerModeNames},
		{fieldHysteresis, byte(c.Hysteresis), hysteresisNames},
		{fieldOutputStage, byte(c.OutputStage), outputStageNames},
		{fieldPWMFrequency, byte(c.PWMFrequency), pwmFrequencyNames},
		{fieldSlowFilter, byte(c.SlowFilter), slowFilterNames},
		{fieldFastFilter, byte(c.FastFilter), fastFilterNames},
		{fieldWatchdog, byte(c.Watchdog), watchdogNames},
	}
	for _, chk := range checks {
		if err := chk.f.check(chk.v, chk.names); err != nil {
			return err
		}
	}
	return nil
}

// bytes packs the configuration in register order: CONF (0x07) first, then 0x08.
func (c Configuration) bytes() [2]byte {
	var b [2]byte
	b[0] = fieldWatchdog.insert(b[0], byte(c.Watchdog))
	b[0] = fieldFastFilter.insert(b[0], byte(c.FastFilter))
	b[0] = fieldSlowFilter.insert(b[0], byte(c.SlowFilter))
	b[1] = fieldPWMFrequency.insert(b[1], byte(c.PWMFrequency))
	b[1] = fieldOutputStage.insert(b[1], byte(c.OutputStage))
	b[1] = fieldHysteresis.insert(b[1], byte(c.Hysteresis))
	b[1] = fieldPowerMode.insert(b[1], byte(c.PowerMode))
	return b
}

func parseConfiguration(b [2]byte) Configuration {
	return Configuration{
		Watchdog:     Watchdog(fieldWatchdog.extract(b[0])),
		FastFilter:   FastFilter(fieldFastFilter.extract(b[0])),
		SlowFilter:   SlowFilter(fieldSlowFilter.extract(b[0])),
		PWMFrequency: PWMFrequency(fieldPWMFrequency.extract(b[1])),
		OutputStage:  OutputStage(fieldOutputStage.extract(b[1])),
		Hysteresis:   Hysteresis(fieldHysteresis.extract(b[1])),
		PowerMode:    PowerMode(fieldPowerMode.extract(b[1])),
	}
}

// field locates a CONF sub-field: the byte register holding it and its bit range.
type field struct {
	name  string
	reg   byte
	shift uint8
	width uint8
}

var (
	fieldWatchdog     = field{name: "watchdog", reg: regCONF, shift: 5, width: 1}
	fieldFastFilter   = field{name: "fast filter", reg: regCONF, shift: 2, width: 3}
	fieldSlowFilter   = field{name: "slow filter", reg: regCONF, shift: 0, width: 2}
	fieldPWMFrequency = field{name: "pwm frequency", reg: regCONF + 1, shift: 6, width: 2}
	fieldOutputStage  = field{name: "output stage", reg: regCONF + 1, shift: 4, width: 2}
	fieldHysteresis   = field{name: "hysteresis", reg: regCONF + 1, shift: 2, width: 2}
	fieldPowerMode    = field{name: "power mode", reg: regCONF + 1, shift: 0, width: 2}
)

func (f field) mask() byte {
	return byte((1<<f.width)-1) << f.shift
}

// insert clears the field bits of b and ORs in v shifted into place.
func (f field) insert(b, v byte) byte {
	return (b &^ f.mask()) | ((v << f.shift) & f.mask())
}

func (f field) extract(b byte) byte {
	return (b & f.mask()) >> f.shift
}

func (f field) check(v byte, names []string) error {
	if v > f.mask()>>f.shift || int(v) >= len(names) {
		return fmt.Errorf("%w: %s value %d", ErrFieldRange, f.name, v)
	}
	return nil
}

func enumName(names []string, v byte) string {
	if int(v) < len(names) {
		return names[v]
	}
	return "invalid(" + strconv.Itoa(int(v)) + ")"
}

// parseEnum accepts either a symbolic name or its numeric encoding.
func parseEnum(kind string, names []string, text []byte) (byte, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			return byte(i), nil
		}
	}
	if v, err := strconv.ParseUint(s, 0, 8); err == nil && int(v) < len(names) {
		return byte(v), nil
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrFieldRange, kind, string(text))
}
