package chip

import (
	"errors"
	"testing"
	"time"

	"github.com/leandrodaf/cs9236/internal/logger"
	"github.com/leandrodaf/cs9236/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const resetPin contracts.Pin = 7

// packetSink records every Write call as a separate packet.
type packetSink struct {
	packets [][]byte
	err     error
	short   bool
}

func (s *packetSink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.packets = append(s.packets, append([]byte(nil), p...))
	if s.short {
		return len(p) - 1, nil
	}
	return len(p), nil
}

type mockGPIO struct{ mock.Mock }

func (g *mockGPIO) SetLevel(pin contracts.Pin, level contracts.Level) error {
	return g.Called(pin, level).Error(0)
}

type fixture struct {
	synth  contracts.Synth
	sink   *packetSink
	gpio   *mockGPIO
	sleeps []time.Duration
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{sink: &packetSink{}, gpio: &mockGPIO{}, logs: logs}

	synth, err := NewSynth(&contracts.SynthOptions{
		Logger:      logger.NewFromZap(zap.New(core)),
		Sink:        f.sink,
		GPIO:        f.gpio,
		ResetPin:    resetPin,
		SettleDelay: contracts.DefaultSettleDelay,
		Sleep:       func(d time.Duration) { f.sleeps = append(f.sleeps, d) },
	}, nil)
	require.NoError(t, err)
	f.synth = synth
	return f
}

func TestNewSynth_RequiresCollaborators(t *testing.T) {
	_, err := NewSynth(&contracts.SynthOptions{Logger: logger.NewNopLogger(), GPIO: &mockGPIO{}}, nil)
	assert.ErrorIs(t, err, ErrNoSink)

	_, err = NewSynth(&contracts.SynthOptions{Logger: logger.NewNopLogger(), Sink: &packetSink{}}, nil)
	assert.ErrorIs(t, err, ErrNoResetLine)
}

func TestCS9236_ChannelMessages(t *testing.T) {
	tests := []struct {
		name     string
		send     func(s contracts.Synth)
		expected [][]byte
	}{
		{
			name:     "note on sends exactly three bytes",
			send:     func(s contracts.Synth) { s.NoteOn(3, 60, 100) },
			expected: [][]byte{{0x93, 0x3C, 0x64}},
		},
		{
			name:     "note off",
			send:     func(s contracts.Synth) { s.NoteOff(3, 60) },
			expected: [][]byte{{0x83, 0x3C, 0x00}},
		},
		{
			name:     "program change",
			send:     func(s contracts.Synth) { s.ProgramChange(0, 42) },
			expected: [][]byte{{0xC0, 0x2A}},
		},
		{
			name:     "channel pressure",
			send:     func(s contracts.Synth) { s.SetChannelPressure(1, 0x30) },
			expected: [][]byte{{0xD1, 0x30}},
		},
		{
			name:     "pitch bend center",
			send:     func(s contracts.Synth) { s.SetPitchBend(2, 0x2000) },
			expected: [][]byte{{0xE2, 0x40, 0x00}},
		},
		{
			name:     "mod wheel",
			send:     func(s contracts.Synth) { s.SetModWheel(0, 10) },
			expected: [][]byte{{0xB0, 0x01, 0x0A}},
		},
		{
			name:     "volume",
			send:     func(s contracts.Synth) { s.SetVolume(0, 100) },
			expected: [][]byte{{0xB0, 0x07, 0x64}},
		},
		{
			name:     "pan",
			send:     func(s contracts.Synth) { s.SetPan(15, 64) },
			expected: [][]byte{{0xBF, 0x0A, 0x40}},
		},
		{
			name:     "expression",
			send:     func(s contracts.Synth) { s.SetExpression(0, 127) },
			expected: [][]byte{{0xB0, 0x0B, 0x7F}},
		},
		{
			name:     "pedal down",
			send:     func(s contracts.Synth) { s.SetPedal(4, true) },
			expected: [][]byte{{0xB4, 0x40, 0x7F}},
		},
		{
			name:     "pedal up",
			send:     func(s contracts.Synth) { s.SetPedal(4, false) },
			expected: [][]byte{{0xB4, 0x40, 0x00}},
		},
		{
			name:     "reverb",
			send:     func(s contracts.Synth) { s.SetReverb(0, 40) },
			expected: [][]byte{{0xB0, 0x5B, 0x28}},
		},
		{
			name:     "chorus",
			send:     func(s contracts.Synth) { s.SetChorus(0, 20) },
			expected: [][]byte{{0xB0, 0x5D, 0x14}},
		},
		{
			name:     "select rpn",
			send:     func(s contracts.Synth) { s.SelectRPN(1, contracts.CoarseTuning) },
			expected: [][]byte{{0xB1, 0x65, 0x00}, {0xB1, 0x64, 0x02}},
		},
		{
			name: "pitch bend sensitivity",
			send: func(s contracts.Synth) { s.SetPitchBendSensitivity(0, 0x0102) },
			expected: [][]byte{
				{0xB0, 0x65, 0x00}, {0xB0, 0x64, 0x00},
				{0xB0, 0x06, 0x01}, {0xB0, 0x26, 0x02},
			},
		},
		{
			name: "fine tuning",
			send: func(s contracts.Synth) { s.SetFineTuning(6, 0x4000) },
			expected: [][]byte{
				{0xB6, 0x65, 0x00}, {0xB6, 0x64, 0x01},
				{0xB6, 0x06, 0x40}, {0xB6, 0x26, 0x00},
			},
		},
		{
			name: "coarse tuning",
			send: func(s contracts.Synth) { s.SetCoarseTuning(6, 0x4200) },
			expected: [][]byte{
				{0xB6, 0x65, 0x00}, {0xB6, 0x64, 0x02},
				{0xB6, 0x06, 0x42}, {0xB6, 0x26, 0x00},
			},
		},
		{
			name:     "all sounds off",
			send:     func(s contracts.Synth) { s.AllSoundsOff(9) },
			expected: [][]byte{{0xB9, 0x78, 0x00}},
		},
		{
			name:     "reset all controllers",
			send:     func(s contracts.Synth) { s.ResetAll(9) },
			expected: [][]byte{{0xB9, 0x79, 0x00}},
		},
		{
			name:     "all notes off",
			send:     func(s contracts.Synth) { s.AllNotesOff(9) },
			expected: [][]byte{{0xB9, 0x7B, 0x00}},
		},
		{
			name:     "mono mode on",
			send:     func(s contracts.Synth) { s.ChannelMode(9, contracts.MonoModeOn) },
			expected: [][]byte{{0xB9, 0x7E, 0x00}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.send(f.synth)
			assert.Equal(t, tt.expected, f.sink.packets)
			f.gpio.AssertNotCalled(t, "SetLevel", mock.Anything, mock.Anything)
		})
	}
}

func TestCS9236_SystemMessages(t *testing.T) {
	header := []byte{0xF0, 0x00, 0x01, 0x02, 0x01, 0x01}
	sysex := func(code byte) []byte {
		return append(append([]byte(nil), header...), code, 0xF7)
	}

	tests := []struct {
		name     string
		send     func(s contracts.Synth)
		expected []byte
	}{
		{name: "system reset", send: func(s contracts.Synth) { s.SystemReset() }, expected: []byte{0xFF}},
		{name: "poll", send: func(s contracts.Synth) { s.Poll() }, expected: []byte{0xFE}},
		{name: "enable pressure", send: func(s contracts.Synth) { s.EnablePressureRecognition() }, expected: sysex(0x01)},
		{name: "disable pressure", send: func(s contracts.Synth) { s.DisablePressureRecognition() }, expected: sysex(0x02)},
		{name: "enable test tone", send: func(s contracts.Synth) { s.EnableTestTone() }, expected: sysex(0x03)},
		{name: "disable test tone", send: func(s contracts.Synth) { s.DisableTestTone() }, expected: sysex(0x04)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.send(f.synth)
			require.Len(t, f.sink.packets, 1)
			assert.Equal(t, tt.expected, f.sink.packets[0])
		})
	}
}

func TestCS9236_EnableTestToneIsEightBytes(t *testing.T) {
	f := newFixture(t)
	f.synth.EnableTestTone()

	require.Len(t, f.sink.packets, 1)
	assert.Len(t, f.sink.packets[0], 8)
	assert.Equal(t, []byte{0xF0, 0x00, 0x01, 0x02, 0x01, 0x01, 0x03, 0xF7}, f.sink.packets[0])
}

func TestCS9236_NoteOnEveryChannel(t *testing.T) {
	f := newFixture(t)
	for c := uint8(0); c <= contracts.MaxChannel; c++ {
		f.synth.NoteOn(c, 0x3C, 0x40)
	}

	require.Len(t, f.sink.packets, 16)
	for c, p := range f.sink.packets {
		assert.Equal(t, []byte{0x90 | byte(c), 0x3C, 0x40}, p)
	}
}

func TestCS9236_InvalidChannelIsDropped(t *testing.T) {
	ops := map[string]func(s contracts.Synth, c uint8){
		"NoteOn":                  func(s contracts.Synth, c uint8) { s.NoteOn(c, 60, 100) },
		"NoteOff":                 func(s contracts.Synth, c uint8) { s.NoteOff(c, 60) },
		"ProgramChange":           func(s contracts.Synth, c uint8) { s.ProgramChange(c, 1) },
		"SetChannelPressure":      func(s contracts.Synth, c uint8) { s.SetChannelPressure(c, 1) },
		"SetPitchBend":            func(s contracts.Synth, c uint8) { s.SetPitchBend(c, 0x2000) },
		"ControlChange":           func(s contracts.Synth, c uint8) { s.ControlChange(c, contracts.Volume, 1) },
		"SetModWheel":             func(s contracts.Synth, c uint8) { s.SetModWheel(c, 1) },
		"SetVolume":               func(s contracts.Synth, c uint8) { s.SetVolume(c, 1) },
		"SetPan":                  func(s contracts.Synth, c uint8) { s.SetPan(c, 1) },
		"SetExpression":           func(s contracts.Synth, c uint8) { s.SetExpression(c, 1) },
		"SetPedal":                func(s contracts.Synth, c uint8) { s.SetPedal(c, true) },
		"SetReverb":               func(s contracts.Synth, c uint8) { s.SetReverb(c, 1) },
		"SetChorus":               func(s contracts.Synth, c uint8) { s.SetChorus(c, 1) },
		"SelectRPN":               func(s contracts.Synth, c uint8) { s.SelectRPN(c, contracts.FineTuning) },
		"SetPitchBendSensitivity": func(s contracts.Synth, c uint8) { s.SetPitchBendSensitivity(c, 0x0200) },
		"SetFineTuning":           func(s contracts.Synth, c uint8) { s.SetFineTuning(c, 0x4000) },
		"SetCoarseTuning":         func(s contracts.Synth, c uint8) { s.SetCoarseTuning(c, 0x4000) },
		"ChannelMode":             func(s contracts.Synth, c uint8) { s.ChannelMode(c, contracts.OmniModeOn) },
		"AllSoundsOff":            func(s contracts.Synth, c uint8) { s.AllSoundsOff(c) },
		"ResetAll":                func(s contracts.Synth, c uint8) { s.ResetAll(c) },
		"AllNotesOff":             func(s contracts.Synth, c uint8) { s.AllNotesOff(c) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			for _, c := range []uint8{16, 17, 0x7F, 0xFF} {
				f := newFixture(t)
				op(f.synth, c)

				assert.Empty(t, f.sink.packets, "channel %d", c)
				f.gpio.AssertNotCalled(t, "SetLevel", mock.Anything, mock.Anything)
				assert.Equal(t, 1, f.logs.FilterMessage("dropping command for invalid channel").Len())
				assert.Zero(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
			}
		})
	}
}

func TestCS9236_Init(t *testing.T) {
	f := newFixture(t)

	var calls []contracts.Level
	f.gpio.On("SetLevel", resetPin, mock.Anything).
		Run(func(args mock.Arguments) { calls = append(calls, args.Get(1).(contracts.Level)) }).
		Return(nil)

	require.NoError(t, f.synth.Init())

	assert.Equal(t, []contracts.Level{contracts.Low, contracts.High}, calls)
	assert.Equal(t, []time.Duration{time.Millisecond}, f.sleeps)
	assert.Empty(t, f.sink.packets)
}

func TestCS9236_InitSleepsBetweenEdges(t *testing.T) {
	f := newFixture(t)

	var order []string
	f.gpio.On("SetLevel", resetPin, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, args.Get(1).(contracts.Level).String()) }).
		Return(nil)

	synth, err := NewSynth(&contracts.SynthOptions{
		Logger:      logger.NewNopLogger(),
		Sink:        f.sink,
		GPIO:        f.gpio,
		ResetPin:    resetPin,
		SettleDelay: 2 * time.Millisecond,
		Sleep:       func(d time.Duration) { order = append(order, "sleep "+d.String()) },
	}, nil)
	require.NoError(t, err)

	require.NoError(t, synth.Init())
	assert.Equal(t, []string{"low", "sleep 2ms", "high"}, order)
}

func TestCS9236_InitStopsOnLineError(t *testing.T) {
	f := newFixture(t)
	lineErr := errors.New("pin busy")
	f.gpio.On("SetLevel", resetPin, contracts.Low).Return(lineErr)

	err := f.synth.Init()

	require.ErrorIs(t, err, ErrResetLine)
	assert.Contains(t, err.Error(), "pin busy")
	assert.Empty(t, f.sleeps)
	f.gpio.AssertNotCalled(t, "SetLevel", resetPin, contracts.High)
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestCS9236_Shutdown(t *testing.T) {
	f := newFixture(t)
	f.gpio.On("SetLevel", resetPin, contracts.Low).Return(nil)

	require.NoError(t, f.synth.Shutdown())

	f.gpio.AssertNumberOfCalls(t, "SetLevel", 1)
	f.gpio.AssertCalled(t, "SetLevel", resetPin, contracts.Low)
	assert.Empty(t, f.sleeps)
	assert.Empty(t, f.sink.packets)
}

func TestCS9236_SinkErrorsAreLoggedNotRetried(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("port closed")

	f.synth.SetPitchBendSensitivity(0, 0x0200)

	assert.Empty(t, f.sink.packets)
	assert.Equal(t, 4, f.logs.FilterMessage("sink write failed").Len())
}

func TestCS9236_ShortWriteIsLogged(t *testing.T) {
	f := newFixture(t)
	f.sink.short = true

	f.synth.NoteOn(0, 60, 100)

	assert.Len(t, f.sink.packets, 1)
	assert.Equal(t, 1, f.logs.FilterMessage("short sink write").Len())
}

type closeRecorder struct{ closed int }

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestCS9236_Close(t *testing.T) {
	rec := &closeRecorder{}
	synth, err := NewSynth(&contracts.SynthOptions{
		Logger: logger.NewNopLogger(),
		Sink:   &packetSink{},
		GPIO:   &mockGPIO{},
	}, rec)
	require.NoError(t, err)

	require.NoError(t, synth.Close())
	require.NoError(t, synth.Close())
	assert.Equal(t, 1, rec.closed)

	f := newFixture(t)
	assert.NoError(t, f.synth.Close())
}
