package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leandrodaf/cs9236/sdk/contracts"
	"gopkg.in/yaml.v3"
)

// Reset line kinds accepted in config files and flags.
const (
	resetNone  = "none"
	resetDTR   = "dtr"
	resetRTS   = "rts"
	resetSysfs = "sysfs"
)

var (
	errUnknownResetLine = errors.New("unknown reset line")
	errUnknownLogLevel  = errors.New("unknown log level")
	errNoOutput         = errors.New("no output: set port or midi_out")
	errSettleTooShort   = errors.New("reset settle delay too short")
)

// ResetConfig describes how the chip's reset input is wired.
type ResetConfig struct {
	Line   string `yaml:"line"`   // none, dtr, rts or sysfs
	Pin    uint   `yaml:"pin"`    // sysfs GPIO number
	Invert bool   `yaml:"invert"` // modem line asserted for a low level
	Settle string `yaml:"settle"` // duration Init holds the chip in reset
}

// Config is the cs9236ctl configuration file.
type Config struct {
	Port     string      `yaml:"port"`
	Baud     int         `yaml:"baud"`
	MIDIOut  string      `yaml:"midi_out"`
	Channel  uint8       `yaml:"channel"`
	LogLevel string      `yaml:"log_level"`
	LogFile  string      `yaml:"log_file"`
	Reset    ResetConfig `yaml:"reset"`
}

func defaultConfig() Config {
	return Config{
		Baud:     contracts.DefaultBaudRate,
		LogLevel: "info",
		Reset:    ResetConfig{Line: resetNone, Settle: contracts.DefaultSettleDelay.String()},
	}
}

// parseConfig decodes data over the defaults.
func parseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.validate()
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return parseConfig(data)
}

func (c Config) validate() error {
	if c.Channel > contracts.MaxChannel {
		return fmt.Errorf("channel %d out of range 0-%d", c.Channel, contracts.MaxChannel)
	}
	if _, err := c.settleDelay(); err != nil {
		return err
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Reset.Line) {
	case resetNone, resetDTR, resetRTS, resetSysfs, "":
	default:
		return fmt.Errorf("%w %q: want none, dtr, rts or sysfs", errUnknownResetLine, c.Reset.Line)
	}
	return nil
}

func (c Config) settleDelay() (time.Duration, error) {
	if c.Reset.Settle == "" {
		return contracts.DefaultSettleDelay, nil
	}
	d, err := time.ParseDuration(c.Reset.Settle)
	if err != nil {
		return 0, fmt.Errorf("invalid reset settle delay %q: %w", c.Reset.Settle, err)
	}
	if d < contracts.DefaultSettleDelay {
		return 0, fmt.Errorf("%w: %s, want at least %s", errSettleTooShort, d, contracts.DefaultSettleDelay)
	}
	return d, nil
}

func (c Config) logLevel() (contracts.LogLevel, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return contracts.DebugLevel, nil
	case "info", "":
		return contracts.InfoLevel, nil
	case "warn":
		return contracts.WarnLevel, nil
	case "error":
		return contracts.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("%w %q", errUnknownLogLevel, c.LogLevel)
	}
}
