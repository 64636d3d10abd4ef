//go:build !linux
// +build !linux

package gpio

import (
	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// Sysfs is unavailable outside Linux; every level change fails.
type Sysfs struct {
	logger contracts.Logger
}

func NewSysfs(root string, log contracts.Logger) *Sysfs {
	log.Warn("Using dummy sysfs GPIO driver for non-Linux system")
	return &Sysfs{logger: log}
}

func (s *Sysfs) SetLevel(pin contracts.Pin, level contracts.Level) error {
	s.logger.Warn("SetLevel called on dummy sysfs GPIO driver", s.logger.Field().Int("pin", int(pin)))
	return ErrUnsupportedPlatform
}

func (s *Sysfs) Close() error {
	return nil
}
