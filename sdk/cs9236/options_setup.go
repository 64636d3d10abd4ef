package cs9236

import (
	"time"

	"github.com/leandrodaf/cs9236/internal/logger"
	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// applyDefaultOptions sets default values for SynthOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify SynthOptions.
//
// Returns:
//   - contracts.SynthOptions: The finalized options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.SynthOptions, error) {
	options := &contracts.SynthOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	// The chip needs at least 1ms in reset.
	if options.SettleDelay < contracts.DefaultSettleDelay {
		options.SettleDelay = contracts.DefaultSettleDelay
	}
	if options.Sleep == nil {
		options.Sleep = time.Sleep
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
