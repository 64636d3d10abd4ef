package cs9236

import (
	"github.com/leandrodaf/cs9236/internal/chip"
	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// NewSynth creates a CS9236 driver with the specified options.
// It applies default options, resolves the byte sink and the reset line,
// and initializes the driver. The chip itself is not reset: call Init.
//
// opts ...contracts.Option: A variadic list of option functions to customize the driver.
//
// Returns:
//   - contracts.Synth: An instance of the driver.
//   - error: An error, if any occurred while opening the transport.
func NewSynth(opts ...contracts.Option) (contracts.Synth, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	closer, err := resolveSink(&options)
	if err != nil {
		return nil, err
	}
	resolveResetLine(&options)

	synth, err := chip.NewSynth(&options, closer)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return synth, nil
}
