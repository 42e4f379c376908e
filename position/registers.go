package position

// DefaultAddress is the fixed 7-bit bus address of the AS5600.
const DefaultAddress = 0x36

// Configuration registers
const (
	regZMCO byte = 0x00
	regZPOS byte = 0x01
	regMPOS byte = 0x03
	regMANG byte = 0x05
	regCONF byte = 0x07
)

// Output registers
const (
	regRawAngle byte = 0x0C
	regAngle    byte = 0x0E
)

// Status registers
const (
	regStatus    byte = 0x0B
	regAGC       byte = 0x1A
	regMagnitude byte = 0x1B
)

// BURN register and its two commands
const (
	regBurn         byte = 0xFF
	cmdBurnAngle    byte = 0x80
	cmdBurnSettings byte = 0x40
)

const (
	angleMask = 0x0FFF
	zmcoMask  = 0x03
)
