package gpio

import "errors"

// DefaultSysfsRoot is where the kernel exposes the legacy GPIO interface.
const DefaultSysfsRoot = "/sys/class/gpio"

// Error definitions for the sysfs GPIO driver.
var (
	ErrUnsupportedPlatform = errors.New("sysfs GPIO is not available on this platform")
	ErrExportPin           = errors.New("error exporting GPIO pin")
	ErrWritePin            = errors.New("error writing GPIO pin")
)
