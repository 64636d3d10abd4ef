package gpio

import (
	"errors"

	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// ErrUnwired is returned when the reset line is driven but none is configured.
var ErrUnwired = errors.New("reset line is not wired")

// Unwired stands in when the chip's reset input is not connected to the host.
// Every level change fails, so Init and Shutdown report it instead of
// pretending to reset the chip.
type Unwired struct{}

func (Unwired) SetLevel(contracts.Pin, contracts.Level) error {
	return ErrUnwired
}
