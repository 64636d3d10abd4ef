package contracts

import "time"

// MaxChannel is the highest MIDI channel the chip accepts. Channel-scoped
// commands addressed above it are dropped without writing anything.
const MaxChannel uint8 = 15

// ActiveSenseTimeout is how long the chip waits for any byte once active
// sensing is enabled. Past it, the chip silences all sounds and resets its controllers.
const ActiveSenseTimeout = 372 * time.Millisecond

// ControlChangeParameter is the controller number of a Control Change message.
type ControlChangeParameter uint8

const (
	ModWheel   ControlChangeParameter = 0x01
	RPNMSB     ControlChangeParameter = 0x06 // data entry, most significant byte
	RPNLSB     ControlChangeParameter = 0x26 // data entry, least significant byte
	Volume     ControlChangeParameter = 0x07
	Pan        ControlChangeParameter = 0x0A // 0 left, 64 center, 127 right
	Expression ControlChangeParameter = 0x0B
	Pedal      ControlChangeParameter = 0x40
	Reverb     ControlChangeParameter = 0x5B
	Chorus     ControlChangeParameter = 0x5D
)

// RPN identifies a Registered Parameter Number.
type RPN uint8

const (
	PitchBendSensitivity RPN = 0x00
	FineTuning           RPN = 0x01
	CoarseTuning         RPN = 0x02
)

// ChannelModeKind is the controller number of a Channel Mode message.
type ChannelModeKind uint8

const (
	AllSoundsOff ChannelModeKind = 0x78
	ResetAll     ChannelModeKind = 0x79
	AllNotesOff  ChannelModeKind = 0x7B
	OmniModeOff  ChannelModeKind = 0x7C
	OmniModeOn   ChannelModeKind = 0x7D
	MonoModeOn   ChannelModeKind = 0x7E
	PolyModeOn   ChannelModeKind = 0x7F
)

// SysExFeature selects one of the chip's vendor System Exclusive toggles.
type SysExFeature uint8

const (
	PressureRecognitionOn  SysExFeature = 0x01
	PressureRecognitionOff SysExFeature = 0x02
	TestToneOn             SysExFeature = 0x03
	TestToneOff            SysExFeature = 0x04
)

// Synth drives a CS9236 sound generator.
//
// Channel-scoped methods silently ignore channels above MaxChannel. Data
// bytes are written as given: values above 127 are not masked.
type Synth interface {
	Init() error     // Pulses the reset line low, then high after the settle delay.
	Shutdown() error // Holds the chip in reset.
	Close() error    // Releases transports opened by the SDK itself.

	SystemReset()
	Poll() // Sends Active Sense. Must be repeated within ActiveSenseTimeout when sensing is enabled.

	NoteOn(channel, key, velocity uint8)
	NoteOff(channel, key uint8)
	ProgramChange(channel, program uint8)
	SetChannelPressure(channel, pressure uint8)
	SetPitchBend(channel uint8, bend uint16) // 14-bit, 0x2000 is center

	ControlChange(channel uint8, param ControlChangeParameter, value uint8)
	SetModWheel(channel, depth uint8)
	SetVolume(channel, volume uint8)
	SetPan(channel, value uint8)
	SetExpression(channel, value uint8)
	SetPedal(channel uint8, down bool)
	SetReverb(channel, value uint8)
	SetChorus(channel, value uint8)

	SelectRPN(channel uint8, rpn RPN)
	SetPitchBendSensitivity(channel uint8, value uint16)
	SetFineTuning(channel uint8, value uint16)
	SetCoarseTuning(channel uint8, value uint16)

	ChannelMode(channel uint8, kind ChannelModeKind)
	AllSoundsOff(channel uint8)
	ResetAll(channel uint8)
	AllNotesOff(channel uint8)

	EnablePressureRecognition()
	DisablePressureRecognition()
	EnableTestTone()
	DisableTestTone()
}
