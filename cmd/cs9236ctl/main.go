package main

import (
	"fmt"
	"os"

	"github.com/leandrodaf/cs9236/internal/logger"
	"github.com/urfave/cli"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver for --midi-out
)

func main() {
	defer midi.CloseDriver()

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log := logger.NewZapLogger()
		log.Error("cs9236ctl failed", log.Field().Error("error", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var cfg Config

	app := cli.NewApp()
	app.Name = "cs9236ctl"
	app.Usage = "drive a CS9236 MIDI sound generator from the command line"
	app.Description = "Sends MIDI commands to a CS9236 over a serial port or a MIDI output port and pulses its reset line."
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML config file; flags override its values",
		},
		cli.StringFlag{
			Name:  "port",
			Usage: "Serial port the chip is attached to, e.g. /dev/ttyUSB0",
		},
		cli.IntFlag{
			Name:  "baud",
			Usage: "Serial baud rate",
			Value: 31250,
		},
		cli.StringFlag{
			Name:  "midi-out",
			Usage: "MIDI output port name, used when no serial port is given",
		},
		cli.IntFlag{
			Name:  "channel",
			Usage: "MIDI channel 0-15",
		},
		cli.StringFlag{
			Name:  "reset-line",
			Usage: "How the reset input is wired: none, dtr, rts or sysfs",
			Value: resetNone,
		},
		cli.UintFlag{
			Name:  "reset-pin",
			Usage: "GPIO number of the reset line when --reset-line=sysfs",
		},
		cli.BoolFlag{
			Name:  "reset-invert",
			Usage: "Assert the modem line for a low reset level (dtr/rts only)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "Write logs to this file instead of standard error",
		},
	}
	app.Before = func(c *cli.Context) error {
		loaded, err := loadConfig(c.String("config"))
		if err != nil {
			return err
		}
		cfg = applyFlags(c, loaded)
		return cfg.validate()
	}
	app.Commands = commands(&cfg)
	return app
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(c *cli.Context, cfg Config) Config {
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("baud") {
		cfg.Baud = c.Int("baud")
	}
	if c.IsSet("midi-out") {
		cfg.MIDIOut = c.String("midi-out")
	}
	if c.IsSet("channel") {
		cfg.Channel = clampChannel(c.Int("channel"))
	}
	if c.IsSet("reset-line") {
		cfg.Reset.Line = c.String("reset-line")
	}
	if c.IsSet("reset-pin") {
		cfg.Reset.Pin = c.Uint("reset-pin")
	}
	if c.IsSet("reset-invert") {
		cfg.Reset.Invert = c.Bool("reset-invert")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	return cfg
}

// clampChannel maps out of range input to a value validate rejects.
func clampChannel(ch int) uint8 {
	if ch < 0 || ch > 0xFF {
		return 0xFF
	}
	return uint8(ch)
}

func printf(c *cli.Context, format string, args ...interface{}) {
	fmt.Fprintf(c.App.Writer, format, args...)
}
