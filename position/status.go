package position

// MagnetState grades the field strength reported by the MD, ML and MH status bits.
type MagnetState byte

const (
	MagnetTooWeak MagnetState = iota
	MagnetWeak
	MagnetNormal
	MagnetStrong
	MagnetTooStrong
)

// Status bits after shifting STATUS right by 3.
const (
	statusMH = 0x01 // magnet too strong
	statusML = 0x02 // magnet too weak
	statusMD = 0x04 // magnet detected
)

func (m MagnetState) String() string {
	switch m {
	case MagnetTooWeak:
		return "too weak"
	case MagnetWeak:
		return "weak"
	case MagnetNormal:
		return "normal"
	case MagnetStrong:
		return "strong"
	case MagnetTooStrong:
		return "too strong"
	}
	return "unknown"
}

// Usable reports whether the sensor produces valid angles in this state.
func (m MagnetState) Usable() bool {
	return m == MagnetWeak || m == MagnetNormal || m == MagnetStrong
}

// decodeMagnetState maps the STATUS register to a MagnetState. Codes without a
// documented meaning, including "no magnet", report MagnetTooWeak.
func decodeMagnetState(status byte) MagnetState {
	switch (status >> 3) & 0x07 {
	case statusMH:
		return MagnetTooStrong
	case statusMD | statusMH:
		return MagnetStrong
	case statusMD:
		return MagnetNormal
	case statusMD | statusML:
		return MagnetWeak
	}
	return MagnetTooWeak
}
