package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/leandrodaf/cs9236/internal/gpio"
	"github.com/leandrodaf/cs9236/internal/logger"
	"github.com/leandrodaf/cs9236/sdk/contracts"
	"github.com/leandrodaf/cs9236/sdk/cs9236"
	"github.com/urfave/cli"
	"gitlab.com/gomidi/midi/v2"
)

// ccNames maps cc command names to controller numbers.
var ccNames = map[string]contracts.ControlChangeParameter{
	"modwheel":   contracts.ModWheel,
	"volume":     contracts.Volume,
	"pan":        contracts.Pan,
	"expression": contracts.Expression,
	"pedal":      contracts.Pedal,
	"reverb":     contracts.Reverb,
	"chorus":     contracts.Chorus,
}

// synthAction is a command body run against an open synth on the configured channel.
type synthAction func(c *cli.Context, s contracts.Synth, channel uint8) error

func commands(cfg *Config) []cli.Command {
	run := func(fn synthAction) cli.ActionFunc {
		return func(c *cli.Context) error {
			return withSynth(*cfg, func(s contracts.Synth) error {
				return fn(c, s, cfg.Channel)
			})
		}
	}

	return []cli.Command{
		{
			Name:   "ports",
			Usage:  "List serial ports and MIDI output ports",
			Action: listPorts,
		},
		{
			Name:  "init",
			Usage: "Pulse the reset line to bring the chip out of reset",
			Action: run(func(_ *cli.Context, s contracts.Synth, _ uint8) error {
				return s.Init()
			}),
		},
		{
			Name:  "shutdown",
			Usage: "Hold the chip in reset",
			Action: run(func(_ *cli.Context, s contracts.Synth, _ uint8) error {
				return s.Shutdown()
			}),
		},
		{
			Name:  "system-reset",
			Usage: "Send the System Reset message",
			Action: run(func(_ *cli.Context, s contracts.Synth, _ uint8) error {
				s.SystemReset()
				return nil
			}),
		},
		{
			Name:      "note",
			Usage:     "Play a note",
			ArgsUsage: "KEY [VELOCITY] [DURATION]",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				key, err := argUint8(c, 0, "key", nil)
				if err != nil {
					return err
				}
				velocity, err := argUint8(c, 1, "velocity", ptr8(100))
				if err != nil {
					return err
				}
				hold := 500 * time.Millisecond
				if c.NArg() > 2 {
					if hold, err = time.ParseDuration(c.Args().Get(2)); err != nil {
						return fmt.Errorf("invalid duration: %w", err)
					}
				}
				s.NoteOn(ch, key, velocity)
				time.Sleep(hold)
				s.NoteOff(ch, key)
				return nil
			}),
		},
		{
			Name:      "program",
			Usage:     "Send a Program Change",
			ArgsUsage: "PROGRAM",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				program, err := argUint8(c, 0, "program", nil)
				if err != nil {
					return err
				}
				s.ProgramChange(ch, program)
				return nil
			}),
		},
		{
			Name:      "pressure-set",
			Usage:     "Send Channel Pressure",
			ArgsUsage: "PRESSURE",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				pressure, err := argUint8(c, 0, "pressure", nil)
				if err != nil {
					return err
				}
				s.SetChannelPressure(ch, pressure)
				return nil
			}),
		},
		{
			Name:      "bend",
			Usage:     "Send Pitch Bend (0-16383, 8192 is center)",
			ArgsUsage: "VALUE",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				bend, err := argUint16(c, 0, "bend")
				if err != nil {
					return err
				}
				s.SetPitchBend(ch, bend)
				return nil
			}),
		},
		{
			Name:      "cc",
			Usage:     "Send a Control Change (modwheel, volume, pan, expression, pedal, reverb, chorus or a number)",
			ArgsUsage: "PARAM VALUE",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				param, err := parseControl(c.Args().Get(0))
				if err != nil {
					return err
				}
				value, err := argUint8(c, 1, "value", nil)
				if err != nil {
					return err
				}
				s.ControlChange(ch, param, value)
				return nil
			}),
		},
		{
			Name:      "pedal",
			Usage:     "Press or release the pedal",
			ArgsUsage: "on|off",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				down, err := parseOnOff(c.Args().Get(0))
				if err != nil {
					return err
				}
				s.SetPedal(ch, down)
				return nil
			}),
		},
		{
			Name:      "bend-range",
			Usage:     "Set the pitch bend sensitivity",
			ArgsUsage: "SEMITONES [CENTS]",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				semitones, err := argUint8(c, 0, "semitones", nil)
				if err != nil {
					return err
				}
				cents, err := argUint8(c, 1, "cents", ptr8(0))
				if err != nil {
					return err
				}
				s.SetPitchBendSensitivity(ch, uint16(semitones)<<8|uint16(cents))
				return nil
			}),
		},
		{
			Name:      "fine-tune",
			Usage:     "Set fine tuning (16-bit RPN value, 0x4000 is center)",
			ArgsUsage: "VALUE",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				value, err := argUint16(c, 0, "value")
				if err != nil {
					return err
				}
				s.SetFineTuning(ch, value)
				return nil
			}),
		},
		{
			Name:      "coarse-tune",
			Usage:     "Set coarse tuning (16-bit RPN value, 0x4000 is center)",
			ArgsUsage: "VALUE",
			Action: run(func(c *cli.Context, s contracts.Synth, ch uint8) error {
				value, err := argUint16(c, 0, "value")
				if err != nil {
					return err
				}
				s.SetCoarseTuning(ch, value)
				return nil
			}),
		},
		{
			Name:  "sounds-off",
			Usage: "Send All Sounds Off",
			Action: run(func(_ *cli.Context, s contracts.Synth, ch uint8) error {
				s.AllSoundsOff(ch)
				return nil
			}),
		},
		{
			Name:  "notes-off",
			Usage: "Send All Notes Off",
			Action: run(func(_ *cli.Context, s contracts.Synth, ch uint8) error {
				s.AllNotesOff(ch)
				return nil
			}),
		},
		{
			Name:  "reset-all",
			Usage: "Send Reset All Controllers",
			Action: run(func(_ *cli.Context, s contracts.Synth, ch uint8) error {
				s.ResetAll(ch)
				return nil
			}),
		},
		{
			Name:      "test-tone",
			Usage:     "Enable or disable the chip's test tone",
			ArgsUsage: "on|off",
			Action: run(func(c *cli.Context, s contracts.Synth, _ uint8) error {
				on, err := parseOnOff(c.Args().Get(0))
				if err != nil {
					return err
				}
				if on {
					s.EnableTestTone()
				} else {
					s.DisableTestTone()
				}
				return nil
			}),
		},
		{
			Name:      "pressure",
			Usage:     "Enable or disable pressure recognition",
			ArgsUsage: "on|off",
			Action: run(func(c *cli.Context, s contracts.Synth, _ uint8) error {
				on, err := parseOnOff(c.Args().Get(0))
				if err != nil {
					return err
				}
				if on {
					s.EnablePressureRecognition()
				} else {
					s.DisablePressureRecognition()
				}
				return nil
			}),
		},
		{
			Name:      "sense",
			Usage:     "Send Active Sense keepalives until DURATION elapses or interrupted",
			ArgsUsage: "DURATION",
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "interval",
					Usage: "Time between keepalives, below 372ms",
					Value: 250 * time.Millisecond,
				},
			},
			Action: run(func(c *cli.Context, s contracts.Synth, _ uint8) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				if c.NArg() > 0 {
					d, err := time.ParseDuration(c.Args().Get(0))
					if err != nil {
						return fmt.Errorf("invalid duration: %w", err)
					}
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, d)
					defer cancel()
				}
				err := cs9236.RunActiveSense(ctx, s, c.Duration("interval"))
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}),
		},
	}
}

// synthOptions turns cfg into SDK options. The returned closer releases a
// sysfs reset line, if one was opened.
func synthOptions(cfg Config) ([]contracts.Option, func() error, error) {
	level, err := cfg.logLevel()
	if err != nil {
		return nil, nil, err
	}
	settle, err := cfg.settleDelay()
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewZapLogger()
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithSettleDelay(settle),
	}
	if cfg.LogFile != "" {
		opts = append(opts, contracts.WithLogFile(cfg.LogFile))
	}

	release := func() error { return nil }
	line := strings.ToLower(cfg.Reset.Line)

	switch {
	case cfg.Port != "":
		serialCfg := contracts.SerialConfig{Port: cfg.Port, BaudRate: cfg.Baud, InvertReset: cfg.Reset.Invert}
		switch line {
		case resetDTR:
			serialCfg.ModemReset, serialCfg.ResetLine = true, contracts.DTR
		case resetRTS:
			serialCfg.ModemReset, serialCfg.ResetLine = true, contracts.RTS
		}
		opts = append(opts, contracts.WithSerialConfig(serialCfg))
	case cfg.MIDIOut != "":
		if line == resetDTR || line == resetRTS {
			return nil, nil, fmt.Errorf("reset line %s needs a serial port", line)
		}
		opts = append(opts, contracts.WithMIDIOutPort(cfg.MIDIOut))
	default:
		return nil, nil, errNoOutput
	}

	if line == resetSysfs {
		sysfs := gpio.NewSysfs(gpio.DefaultSysfsRoot, log)
		opts = append(opts, contracts.WithResetLine(sysfs, contracts.Pin(cfg.Reset.Pin)))
		release = sysfs.Close
	}
	return opts, release, nil
}

func withSynth(cfg Config, fn func(s contracts.Synth) error) (err error) {
	opts, release, err := synthOptions(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := release(); err == nil {
			err = rerr
		}
	}()

	synth, err := cs9236.NewSynth(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := synth.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(synth)
}

func listPorts(c *cli.Context) error {
	ports, err := cs9236.ListPorts()
	if err != nil {
		return err
	}
	printf(c, "Serial ports:\n")
	for _, p := range ports {
		if p.IsUSB {
			printf(c, "  %s  USB %s:%s %s %s\n", p.Name, p.VID, p.PID, p.Product, p.SerialNumber)
		} else {
			printf(c, "  %s\n", p.Name)
		}
	}

	printf(c, "MIDI output ports:\n")
	for _, out := range midi.GetOutPorts() {
		printf(c, "  %s\n", out.String())
	}
	return nil
}

func argUint8(c *cli.Context, i int, name string, def *uint8) (uint8, error) {
	if c.NArg() <= i {
		if def != nil {
			return *def, nil
		}
		return 0, fmt.Errorf("missing %s argument", name)
	}
	v, err := strconv.ParseUint(c.Args().Get(i), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return uint8(v), nil
}

func argUint16(c *cli.Context, i int, name string) (uint16, error) {
	if c.NArg() <= i {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	v, err := strconv.ParseUint(c.Args().Get(i), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return uint16(v), nil
}

func parseControl(s string) (contracts.ControlChangeParameter, error) {
	if p, ok := ccNames[strings.ToLower(s)]; ok {
		return p, nil
	}
	v, err := strconv.ParseUint(s, 0, 7)
	if err != nil {
		return 0, fmt.Errorf("invalid controller %q: %w", s, err)
	}
	return contracts.ControlChangeParameter(v), nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %q", s)
	}
}

func ptr8(v uint8) *uint8 { return &v }
