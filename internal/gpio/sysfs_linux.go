//go:build linux
// +build linux

package gpio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leandrodaf/cs9236/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// Sysfs drives pins through /sys/class/gpio. A pin is exported and switched
// to output on first use; its value file then stays open until Close.
type Sysfs struct {
	root   string
	logger contracts.Logger
	values map[contracts.Pin]int
}

// NewSysfs returns a driver rooted at root, usually DefaultSysfsRoot.
func NewSysfs(root string, log contracts.Logger) *Sysfs {
	return &Sysfs{root: root, logger: log, values: make(map[contracts.Pin]int)}
}

func (s *Sysfs) SetLevel(pin contracts.Pin, level contracts.Level) error {
	fd, err := s.value(pin)
	if err != nil {
		return err
	}

	b := []byte{'0'}
	if level == contracts.High {
		b[0] = '1'
	}
	if _, err := unix.Pwrite(fd, b, 0); err != nil {
		return fmt.Errorf("%w %d: %v", ErrWritePin, pin, err)
	}
	return nil
}

// Close releases the value files of every pin used so far.
func (s *Sysfs) Close() error {
	var err error
	for pin, fd := range s.values {
		err = multierr.Append(err, unix.Close(fd))
		delete(s.values, pin)
	}
	return err
}

func (s *Sysfs) value(pin contracts.Pin) (int, error) {
	if fd, ok := s.values[pin]; ok {
		return fd, nil
	}

	dir := filepath.Join(s.root, "gpio"+strconv.FormatUint(uint64(pin), 10))
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("exporting GPIO pin", s.logger.Field().Int("pin", int(pin)))
		if err := writeFile(filepath.Join(s.root, "export"), strconv.FormatUint(uint64(pin), 10)); err != nil {
			return -1, fmt.Errorf("%w %d: %v", ErrExportPin, pin, err)
		}
	}
	if err := writeFile(filepath.Join(dir, "direction"), "out"); err != nil {
		return -1, fmt.Errorf("%w %d: direction: %v", ErrExportPin, pin, err)
	}

	fd, err := unix.Open(filepath.Join(dir, "value"), unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("%w %d: %v", ErrWritePin, pin, err)
	}
	s.values[pin] = fd
	return fd, nil
}

func writeFile(path, data string) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	_, err = unix.Write(fd, []byte(data))
	return multierr.Append(err, unix.Close(fd))
}
