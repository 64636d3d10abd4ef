package contracts

// PortInfo describes a serial port a chip can be attached to.
type PortInfo struct {
	Name         string // Device path, e.g. /dev/ttyUSB0 or COM3.
	IsUSB        bool   // Whether the port is a USB serial bridge.
	VID          string // USB vendor ID, empty for non-USB ports.
	PID          string // USB product ID, empty for non-USB ports.
	SerialNumber string // USB serial number, if reported.
	Product      string // USB product string, if reported.
}
