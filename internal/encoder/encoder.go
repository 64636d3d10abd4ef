// Package encoder renders CS9236 commands as raw MIDI 1.0 packets.
//
// Builders never mask their operands: a data byte above 0x7F is written as
// is. The only bit selection happens when a 14-bit or 16-bit value is split
// across two data bytes.
package encoder

import (
	"github.com/leandrodaf/cs9236/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Status bytes.
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusChannelPressure byte = 0xD0
	StatusPitchBend       byte = 0xE0
	StatusSysExStart      byte = 0xF0
	StatusSysExEnd        byte = 0xF7
	StatusActiveSense     byte = 0xFE
	StatusSystemReset     byte = 0xFF
)

// RPN select controllers.
const (
	ccRPNSelectMSB byte = 0x65
	ccRPNSelectLSB byte = 0x64
)

// PitchBendCenter is the 14-bit pitch bend rest position.
const PitchBendCenter uint16 = 0x2000

// sysExHeader is the vendor envelope preceding the feature code.
var sysExHeader = [...]byte{StatusSysExStart, 0x00, 0x01, 0x02, 0x01, 0x01}

// ValidChannel reports whether channel is addressable on the chip.
func ValidChannel(channel uint8) bool {
	return channel <= contracts.MaxChannel
}

// ActiveSense returns the single-byte keepalive the chip expects every 372ms.
func ActiveSense() midi.Message {
	return midi.Message{StatusActiveSense}
}

// SystemReset returns the single-byte system reset.
func SystemReset() midi.Message {
	return midi.Message{StatusSystemReset}
}

// NoteOn returns a three-byte note on packet.
func NoteOn(channel, key, velocity uint8) midi.Message {
	return midi.Message{StatusNoteOn | channel, key, velocity}
}

// NoteOff always carries a zero release velocity.
func NoteOff(channel, key uint8) midi.Message {
	return midi.Message{StatusNoteOff | channel, key, 0x00}
}

// ProgramChange returns the two-byte program change packet.
func ProgramChange(channel, program uint8) midi.Message {
	return midi.Message{StatusProgramChange | channel, program}
}

// ChannelPressure returns the two-byte channel aftertouch packet.
func ChannelPressure(channel, pressure uint8) midi.Message {
	return midi.Message{StatusChannelPressure | channel, pressure}
}

// PitchBend splits the 14-bit bend into two 7-bit bytes, most significant
// first. The chip expects this order; it is not the LSB-first order of the
// MIDI 1.0 wire format. The high byte is bend>>7, not bend>>8: center
// 0x2000 must encode as E0 40 00.
func PitchBend(channel uint8, bend uint16) midi.Message {
	return midi.Message{StatusPitchBend | channel, byte(bend>>7) & 0x7F, byte(bend) & 0x7F}
}

// ControlChange returns a control change packet for param.
func ControlChange(channel uint8, param contracts.ControlChangeParameter, value uint8) midi.Message {
	return midi.Message{StatusControlChange | channel, byte(param), value}
}

// Pedal maps a pressed pedal to 0x7F and a released one to 0x00.
func Pedal(channel uint8, down bool) midi.Message {
	var value uint8
	if down {
		value = 0x7F
	}
	return ControlChange(channel, contracts.Pedal, value)
}

// SelectRPN returns the two packets addressing rpn, MSB select first.
func SelectRPN(channel uint8, rpn contracts.RPN) []midi.Message {
	return []midi.Message{
		{StatusControlChange | channel, ccRPNSelectMSB, 0x00},
		{StatusControlChange | channel, ccRPNSelectLSB, byte(rpn)},
	}
}

// DataEntry returns the two data entry packets carrying value, high byte first.
func DataEntry(channel uint8, value uint16) []midi.Message {
	return []midi.Message{
		ControlChange(channel, contracts.RPNMSB, byte(value>>8)),
		ControlChange(channel, contracts.RPNLSB, byte(value)),
	}
}

// SetRPN returns the full select then data entry sequence. The order must
// be kept on the wire for the chip to latch the value.
func SetRPN(channel uint8, rpn contracts.RPN, value uint16) []midi.Message {
	return append(SelectRPN(channel, rpn), DataEntry(channel, value)...)
}

// ChannelMode returns the channel mode packet for kind with a zero data byte.
func ChannelMode(channel uint8, kind contracts.ChannelModeKind) midi.Message {
	return midi.Message{StatusControlChange | channel, byte(kind), 0x00}
}

// SysExToggle wraps feature in the vendor SysEx envelope.
func SysExToggle(feature contracts.SysExFeature) midi.Message {
	msg := make(midi.Message, 0, len(sysExHeader)+2)
	msg = append(msg, sysExHeader[:]...)
	return append(msg, byte(feature), StatusSysExEnd)
}
