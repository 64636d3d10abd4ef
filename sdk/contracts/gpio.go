package contracts

// Pin identifies a digital output line on a GPIO driver.
type Pin uint

// Modem control lines of a serial port, usable as the reset line through
// SerialConfig.
const (
	DTR Pin = 0
	RTS Pin = 1
)

// Level is the logic level of a digital output line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// GPIO drives digital output lines.
type GPIO interface {
	SetLevel(pin Pin, level Level) error
}
