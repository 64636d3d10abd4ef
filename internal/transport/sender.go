package transport

import (
	"fmt"

	"github.com/leandrodaf/cs9236/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// SenderSink adapts a gomidi send function to io.Writer. Each Write is sent
// as one complete MIDI message, so callers must write whole packets.
type SenderSink struct {
	send   func(midi.Message) error
	port   drivers.Out
	closed bool
}

// NewSenderSink wraps send. port, when not nil, is closed by Close.
func NewSenderSink(send func(midi.Message) error, port drivers.Out) *SenderSink {
	return &SenderSink{send: send, port: port}
}

// OpenMIDIOut finds the named output port of the registered gomidi driver
// and returns a sink writing to it.
func OpenMIDIOut(name string, log contracts.Logger) (*SenderSink, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		log.Error(ErrMIDIOutPort.Error(),
			log.Field().String("port", name),
			log.Field().Error("error", err))
		return nil, fmt.Errorf("%w %q: %v", ErrMIDIOutPort, name, err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMIDIOutPort, name, err)
	}

	log.Info("MIDI output port opened", log.Field().String("port", out.String()))
	return NewSenderSink(send, out), nil
}

func (s *SenderSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSenderClosed
	}
	msg := make(midi.Message, len(p))
	copy(msg, p)
	if err := s.send(msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the underlying port, if any. Later writes fail with ErrSenderClosed.
func (s *SenderSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}
