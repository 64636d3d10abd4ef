package cs9236

import (
	"errors"
	"io"

	"github.com/leandrodaf/cs9236/internal/gpio"
	"github.com/leandrodaf/cs9236/internal/transport"
	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// ErrNoSink is returned when no sink, serial port or MIDI output port is configured.
var ErrNoSink = errors.New("no sink configured: use WithSink, WithSerialConfig or WithMIDIOutPort")

// Transport openers, swapped in tests.
var (
	openSerial  = transport.OpenSerial
	openMIDIOut = transport.OpenMIDIOut
)

// resolveSink picks the byte sink in order: injected sink, serial port, MIDI
// output port. The returned closer is non-nil only for transports opened here.
// A serial port may also become the reset line when ModemReset is set.
func resolveSink(options *contracts.SynthOptions) (io.Closer, error) {
	switch {
	case options.Sink != nil:
		return nil, nil

	case options.Serial != nil:
		port, err := openSerial(*options.Serial, options.Logger)
		if err != nil {
			return nil, err
		}
		options.Sink = port
		if options.Serial.ModemReset && options.GPIO == nil {
			options.GPIO = gpio.NewSerialControl(port, options.Serial.InvertReset)
			options.ResetPin = options.Serial.ResetLine
		}
		return port, nil

	case options.MIDIOutPort != "":
		sink, err := openMIDIOut(options.MIDIOutPort, options.Logger)
		if err != nil {
			return nil, err
		}
		options.Sink = sink
		return sink, nil

	default:
		return nil, ErrNoSink
	}
}

// resolveResetLine falls back to an unwired line so the synth can still
// play; Init and Shutdown then report gpio.ErrUnwired.
func resolveResetLine(options *contracts.SynthOptions) {
	if options.GPIO != nil {
		return
	}
	options.Logger.Warn("reset line not configured; Init and Shutdown will fail")
	options.GPIO = gpio.Unwired{}
}
