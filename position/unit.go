package position

import (
	"fmt"
	"math"
	"strings"
)

// Unit selects how a 12-bit angle register is presented. One revolution is 4096 steps.
type Unit byte

const (
	Raw Unit = iota
	Degrees
	Radians
)

const stepsPerTurn = 4096

// snapTolerance absorbs float error when converting back to steps so that a value
// produced by FromRaw maps back onto the same step.
const snapTolerance = 1e-6

var unitScale = [...]float64{
	Raw:     1,
	Degrees: 360.0 / stepsPerTurn,
	Radians: 2 * math.Pi / stepsPerTurn,
}

var unitNames = []string{"raw", "deg", "rad"}

// Scale is the size of one register step in this unit.
func (u Unit) Scale() float64 {
	if int(u) < len(unitScale) {
		return unitScale[u]
	}
	return 1
}

// FromRaw masks raw to 12 bits and converts it to u.
func (u Unit) FromRaw(raw uint16) float64 {
	return float64(raw&angleMask) * u.Scale()
}

// ToRaw converts v to register steps, truncating toward zero and wrapping to 12 bits.
// Negative values wrap from the top of the range.
func (u Unit) ToRaw(v float64) uint16 {
	steps := v / u.Scale()
	if r := math.Round(steps); math.Abs(steps-r) < snapTolerance {
		steps = r
	}
	return uint16(int64(math.Trunc(steps))) & angleMask
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("unit(%d)", byte(u))
}

func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *Unit) UnmarshalText(text []byte) error {
	v, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseUnit understands the short names used on the command line and their long forms.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw", "steps":
		return Raw, nil
	case "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	}
	return Raw, fmt.Errorf("unknown angle unit %q", s)
}
