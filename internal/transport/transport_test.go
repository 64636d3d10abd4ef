package transport

import (
	"errors"
	"testing"

	"github.com/leandrodaf/cs9236/internal/logger"
	"github.com/leandrodaf/cs9236/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

type fakePort struct {
	serial.Port
	name string
}

func stubOpener(t *testing.T, fn func(name string, mode *serial.Mode) (serial.Port, error)) {
	t.Helper()
	saved := serialOpener
	serialOpener = fn
	t.Cleanup(func() { serialOpener = saved })
}

func TestOpenSerial_DefaultsToMIDIBaud(t *testing.T) {
	var got *serial.Mode
	stubOpener(t, func(name string, mode *serial.Mode) (serial.Port, error) {
		got = mode
		return &fakePort{name: name}, nil
	})

	port, err := OpenSerial(contracts.SerialConfig{Port: "/dev/ttyUSB0"}, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", port.(*fakePort).name)
	require.NotNil(t, got)
	assert.Equal(t, 31250, got.BaudRate)
	assert.Equal(t, 8, got.DataBits)
	assert.Equal(t, serial.NoParity, got.Parity)
	assert.Equal(t, serial.OneStopBit, got.StopBits)
}

func TestOpenSerial_CustomBaud(t *testing.T) {
	var baud int
	stubOpener(t, func(name string, mode *serial.Mode) (serial.Port, error) {
		baud = mode.BaudRate
		return &fakePort{name: name}, nil
	})

	_, err := OpenSerial(contracts.SerialConfig{Port: "COM3", BaudRate: 38400}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 38400, baud)
}

func TestOpenSerial_Errors(t *testing.T) {
	_, err := OpenSerial(contracts.SerialConfig{}, logger.NewNopLogger())
	assert.ErrorIs(t, err, ErrNoPortName)

	stubOpener(t, func(string, *serial.Mode) (serial.Port, error) {
		return nil, errors.New("permission denied")
	})
	_, err = OpenSerial(contracts.SerialConfig{Port: "/dev/ttyS0"}, logger.NewNopLogger())
	require.ErrorIs(t, err, ErrOpenSerial)
	assert.Contains(t, err.Error(), "/dev/ttyS0")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestListPorts(t *testing.T) {
	saved := portLister
	t.Cleanup(func() { portLister = saved })

	portLister = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "A50285BI", Product: "FT232R"},
		}, nil
	}

	ports, err := ListPorts()
	require.NoError(t, err)
	assert.Equal(t, []contracts.PortInfo{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "A50285BI", Product: "FT232R"},
	}, ports)

	portLister = func() ([]*enumerator.PortDetails, error) { return nil, errors.New("no sysfs") }
	_, err = ListPorts()
	assert.ErrorIs(t, err, ErrListPorts)
}

func TestSenderSink_OneMessagePerWrite(t *testing.T) {
	var sent []midi.Message
	sink := NewSenderSink(func(msg midi.Message) error {
		sent = append(sent, msg)
		return nil
	}, nil)

	packet := []byte{0x90, 0x3C, 0x64}
	n, err := sink.Write(packet)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	packet[0] = 0x80
	require.Len(t, sent, 1)
	assert.Equal(t, midi.Message{0x90, 0x3C, 0x64}, sent[0])
}

func TestSenderSink_Errors(t *testing.T) {
	sendErr := errors.New("port gone")
	sink := NewSenderSink(func(midi.Message) error { return sendErr }, nil)

	n, err := sink.Write([]byte{0xFE})
	assert.Zero(t, n)
	assert.ErrorIs(t, err, sendErr)

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())
	_, err = sink.Write([]byte{0xFE})
	assert.ErrorIs(t, err, ErrSenderClosed)
}
