package gpio

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// Modem control lines of a serial port, usable as pins of SerialControl.
const (
	PinDTR = contracts.DTR
	PinRTS = contracts.RTS
)

// ErrUnknownPin is returned for a pin the driver does not have.
var ErrUnknownPin = errors.New("unknown pin")

// ModemLines is the part of a serial port that drives its control lines.
// go.bug.st/serial ports implement it.
type ModemLines interface {
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
}

// SerialControl drives the reset line through a serial port's DTR or RTS
// output. Most USB-UART bridges drive these lines low when asserted, so
// wiring them straight to an active-low reset usually needs Invert.
type SerialControl struct {
	lines  ModemLines
	invert bool
}

// NewSerialControl returns a GPIO driver over lines.
func NewSerialControl(lines ModemLines, invert bool) *SerialControl {
	return &SerialControl{lines: lines, invert: invert}
}

func (s *SerialControl) SetLevel(pin contracts.Pin, level contracts.Level) error {
	asserted := bool(level)
	if s.invert {
		asserted = !asserted
	}

	switch pin {
	case PinDTR:
		return s.lines.SetDTR(asserted)
	case PinRTS:
		return s.lines.SetRTS(asserted)
	default:
		return fmt.Errorf("%w %d: serial control lines are DTR (%d) and RTS (%d)", ErrUnknownPin, pin, PinDTR, PinRTS)
	}
}
