package cs9236

import (
	"github.com/leandrodaf/cs9236/internal/transport"
	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// ListPorts returns the serial ports a chip can be attached to.
func ListPorts() ([]contracts.PortInfo, error) {
	return transport.ListPorts()
}
