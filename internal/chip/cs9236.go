package chip

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/leandrodaf/cs9236/internal/encoder"
	"github.com/leandrodaf/cs9236/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Error definitions for constructing and resetting the chip.
var (
	ErrNoSink      = errors.New("no byte sink configured")
	ErrNoResetLine = errors.New("no reset line configured")
	ErrResetLine   = errors.New("error driving reset line")
)

// CS9236 drives the sound generator over a byte sink and a reset line.
// It keeps no musical state and performs no locking: callers sharing the
// sink between goroutines must serialize access themselves.
type CS9236 struct {
	logger contracts.Logger
	sink   io.Writer
	closer io.Closer // set only when the SDK opened the transport
	gpio   contracts.GPIO
	rs     contracts.Pin
	settle time.Duration
	sleep  func(time.Duration)
}

// NewSynth builds a CS9236 driver from fully defaulted options. closer, when
// not nil, is released by Close.
func NewSynth(options *contracts.SynthOptions, closer io.Closer) (contracts.Synth, error) {
	if options.Sink == nil {
		return nil, ErrNoSink
	}
	if options.GPIO == nil {
		return nil, ErrNoResetLine
	}

	sleep := options.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &CS9236{
		logger: options.Logger,
		sink:   options.Sink,
		closer: closer,
		gpio:   options.GPIO,
		rs:     options.ResetPin,
		settle: options.SettleDelay,
		sleep:  sleep,
	}, nil
}

// Init brings the chip out of reset.
func (c *CS9236) Init() error {
	if err := c.setReset(contracts.Low); err != nil {
		return err
	}
	c.sleep(c.settle)
	if err := c.setReset(contracts.High); err != nil {
		return err
	}

	c.logger.Info("chip out of reset", c.logger.Field().Duration("settle", c.settle))
	return nil
}

// Shutdown holds the chip in reset.
func (c *CS9236) Shutdown() error {
	if err := c.setReset(contracts.Low); err != nil {
		return err
	}

	c.logger.Info("chip held in reset")
	return nil
}

// Close releases the transport if the SDK opened it. Injected sinks are left open.
func (c *CS9236) Close() error {
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer.Close()
}

func (c *CS9236) setReset(level contracts.Level) error {
	if err := c.gpio.SetLevel(c.rs, level); err != nil {
		c.logger.Error(ErrResetLine.Error(),
			c.logger.Field().Int("pin", int(c.rs)),
			c.logger.Field().String("level", level.String()),
			c.logger.Field().Error("error", err))
		return fmt.Errorf("%w: set pin %d %s: %w", ErrResetLine, c.rs, level, err)
	}
	return nil
}

func (c *CS9236) SystemReset() {
	c.write(encoder.SystemReset())
}

func (c *CS9236) Poll() {
	c.write(encoder.ActiveSense())
}

func (c *CS9236) NoteOn(channel, key, velocity uint8) {
	if c.accept(channel) {
		c.write(encoder.NoteOn(channel, key, velocity))
	}
}

func (c *CS9236) NoteOff(channel, key uint8) {
	if c.accept(channel) {
		c.write(encoder.NoteOff(channel, key))
	}
}

func (c *CS9236) ProgramChange(channel, program uint8) {
	if c.accept(channel) {
		c.write(encoder.ProgramChange(channel, program))
	}
}

func (c *CS9236) SetChannelPressure(channel, pressure uint8) {
	if c.accept(channel) {
		c.write(encoder.ChannelPressure(channel, pressure))
	}
}

func (c *CS9236) SetPitchBend(channel uint8, bend uint16) {
	if c.accept(channel) {
		c.write(encoder.PitchBend(channel, bend))
	}
}

func (c *CS9236) ControlChange(channel uint8, param contracts.ControlChangeParameter, value uint8) {
	if c.accept(channel) {
		c.write(encoder.ControlChange(channel, param, value))
	}
}

func (c *CS9236) SetModWheel(channel, depth uint8) {
	c.ControlChange(channel, contracts.ModWheel, depth)
}

func (c *CS9236) SetVolume(channel, volume uint8) {
	c.ControlChange(channel, contracts.Volume, volume)
}

func (c *CS9236) SetPan(channel, value uint8) {
	c.ControlChange(channel, contracts.Pan, value)
}

func (c *CS9236) SetExpression(channel, value uint8) {
	c.ControlChange(channel, contracts.Expression, value)
}

// SetPedal only exposes fully down or fully up.
func (c *CS9236) SetPedal(channel uint8, down bool) {
	if c.accept(channel) {
		c.write(encoder.Pedal(channel, down))
	}
}

func (c *CS9236) SetReverb(channel, value uint8) {
	c.ControlChange(channel, contracts.Reverb, value)
}

func (c *CS9236) SetChorus(channel, value uint8) {
	c.ControlChange(channel, contracts.Chorus, value)
}

func (c *CS9236) SelectRPN(channel uint8, rpn contracts.RPN) {
	if c.accept(channel) {
		c.write(encoder.SelectRPN(channel, rpn)...)
	}
}

// SetPitchBendSensitivity sets the bend range: value>>8 semitones, value&0xFF cents.
func (c *CS9236) SetPitchBendSensitivity(channel uint8, value uint16) {
	c.setRPN(channel, contracts.PitchBendSensitivity, value)
}

func (c *CS9236) SetFineTuning(channel uint8, value uint16) {
	c.setRPN(channel, contracts.FineTuning, value)
}

func (c *CS9236) SetCoarseTuning(channel uint8, value uint16) {
	c.setRPN(channel, contracts.CoarseTuning, value)
}

func (c *CS9236) setRPN(channel uint8, rpn contracts.RPN, value uint16) {
	if c.accept(channel) {
		c.write(encoder.SetRPN(channel, rpn, value)...)
	}
}

func (c *CS9236) ChannelMode(channel uint8, kind contracts.ChannelModeKind) {
	if c.accept(channel) {
		c.write(encoder.ChannelMode(channel, kind))
	}
}

func (c *CS9236) AllSoundsOff(channel uint8) {
	c.ChannelMode(channel, contracts.AllSoundsOff)
}

func (c *CS9236) ResetAll(channel uint8) {
	c.ChannelMode(channel, contracts.ResetAll)
}

func (c *CS9236) AllNotesOff(channel uint8) {
	c.ChannelMode(channel, contracts.AllNotesOff)
}

func (c *CS9236) EnablePressureRecognition() {
	c.write(encoder.SysExToggle(contracts.PressureRecognitionOn))
}

func (c *CS9236) DisablePressureRecognition() {
	c.write(encoder.SysExToggle(contracts.PressureRecognitionOff))
}

func (c *CS9236) EnableTestTone() {
	c.write(encoder.SysExToggle(contracts.TestToneOn))
}

func (c *CS9236) DisableTestTone() {
	c.write(encoder.SysExToggle(contracts.TestToneOff))
}

// accept reports whether channel is addressable. Rejected commands are
// dropped without touching the sink.
func (c *CS9236) accept(channel uint8) bool {
	if encoder.ValidChannel(channel) {
		return true
	}
	c.logger.Debug("dropping command for invalid channel", c.logger.Field().Uint8("channel", channel))
	return false
}

// write issues one sink write per packet, back to back. Failures and short
// writes are logged and not retried.
func (c *CS9236) write(msgs ...midi.Message) {
	for _, msg := range msgs {
		n, err := c.sink.Write(msg)
		if err != nil {
			c.logger.Warn("sink write failed",
				c.logger.Field().Hex("packet", msg),
				c.logger.Field().Error("error", err))
			continue
		}
		if n < len(msg) {
			c.logger.Warn("short sink write",
				c.logger.Field().Hex("packet", msg),
				c.logger.Field().Int("written", n))
			continue
		}
		c.logger.Debug("packet written", c.logger.Field().Hex("packet", msg))
	}
}
