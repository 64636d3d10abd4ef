package contracts

import (
	"io"
	"time"
)

// DefaultBaudRate is the MIDI 1.0 serial rate.
const DefaultBaudRate = 31250

// DefaultSettleDelay is how long Init holds the reset line low.
const DefaultSettleDelay = time.Millisecond

// SerialConfig holds configuration for a serial port the SDK opens itself.
type SerialConfig struct {
	Port        string // Device path of the serial port.
	BaudRate    int    // Baud rate, DefaultBaudRate when zero.
	ModemReset  bool   // Drive the reset line through ResetLine of this port.
	ResetLine   Pin    // DTR or RTS.
	InvertReset bool   // Assert the modem line for a low reset level.
}

// SynthOptions defines the configuration options for a Synth.
type SynthOptions struct {
	Logger      Logger              // Logger for logging events and errors.
	LogLevel    LogLevel            // Level of logging to use.
	LogFilePath string              // File path for logging if file logging is enabled.
	Sink        io.Writer           // Already configured byte sink. Takes precedence over SerialConfig and MIDIOutPort.
	Serial      *SerialConfig       // Serial port to open when no Sink is given.
	MIDIOutPort string              // gomidi output port name to open when neither Sink nor Serial is given.
	GPIO        GPIO                // Driver of the reset line.
	ResetPin    Pin                 // Reset line identifier on GPIO.
	SettleDelay time.Duration       // Time the reset line is held low by Init.
	Sleep       func(time.Duration) // Delay primitive used by Init.
}

// Option is a function that modifies SynthOptions.
type Option func(*SynthOptions)

// WithLogger sets the logger for the synth.
func WithLogger(l Logger) Option {
	return func(opts *SynthOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the synth.
func WithLogLevel(level LogLevel) Option {
	return func(opts *SynthOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile redirects logging to the file at path.
func WithLogFile(path string) Option {
	return func(opts *SynthOptions) {
		opts.LogFilePath = path
	}
}

// WithSink sets an already configured byte sink. The synth never closes it.
func WithSink(w io.Writer) Option {
	return func(opts *SynthOptions) {
		opts.Sink = w
	}
}

// WithSerialConfig makes the SDK open the serial port described by config.
func WithSerialConfig(config SerialConfig) Option {
	return func(opts *SynthOptions) {
		opts.Serial = &config
	}
}

// WithMIDIOutPort makes the SDK open the named MIDI output port. A gomidi
// driver must be registered by the caller.
func WithMIDIOutPort(name string) Option {
	return func(opts *SynthOptions) {
		opts.MIDIOutPort = name
	}
}

// WithResetLine sets the line wired to the chip's reset input.
func WithResetLine(gpio GPIO, pin Pin) Option {
	return func(opts *SynthOptions) {
		opts.GPIO = gpio
		opts.ResetPin = pin
	}
}

// WithSettleDelay sets how long Init holds the chip in reset. Values under
// DefaultSettleDelay are raised to it.
func WithSettleDelay(d time.Duration) Option {
	return func(opts *SynthOptions) {
		opts.SettleDelay = d
	}
}

// WithSleep replaces the delay primitive used by Init.
func WithSleep(sleep func(time.Duration)) Option {
	return func(opts *SynthOptions) {
		opts.Sleep = sleep
	}
}
