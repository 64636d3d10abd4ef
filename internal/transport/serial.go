package transport

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/cs9236/sdk/contracts"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Error definitions for opening transports.
var (
	ErrNoPortName   = errors.New("serial port name is empty")
	ErrOpenSerial   = errors.New("error opening serial port")
	ErrListPorts    = errors.New("error listing serial ports")
	ErrMIDIOutPort  = errors.New("error opening MIDI output port")
	ErrSenderClosed = errors.New("MIDI output port is closed")
)

// serialOpener is swapped in tests.
var serialOpener = serial.Open

// OpenSerial opens the port in config as 8N1 at the configured baud rate.
// The returned port is the chip's byte sink and also exposes the DTR/RTS
// lines, which can carry the reset signal.
func OpenSerial(config contracts.SerialConfig, log contracts.Logger) (serial.Port, error) {
	if config.Port == "" {
		return nil, ErrNoPortName
	}
	baud := config.BaudRate
	if baud == 0 {
		baud = contracts.DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serialOpener(config.Port, mode)
	if err != nil {
		log.Error(ErrOpenSerial.Error(),
			log.Field().String("port", config.Port),
			log.Field().Error("error", err))
		return nil, fmt.Errorf("%w %s: %v", ErrOpenSerial, config.Port, err)
	}

	log.Info("serial port opened",
		log.Field().String("port", config.Port),
		log.Field().Int("baud", baud))
	return port, nil
}

// portLister is swapped in tests.
var portLister = enumerator.GetDetailedPortsList

// ListPorts describes the serial ports present on the host.
func ListPorts() ([]contracts.PortInfo, error) {
	details, err := portLister()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListPorts, err)
	}

	ports := make([]contracts.PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, contracts.PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}
