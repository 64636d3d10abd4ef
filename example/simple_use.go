package main

import (
	"context"
	"fmt"
	"time"

	"github.com/leandrodaf/cs9236/internal/logger"
	"github.com/leandrodaf/cs9236/sdk/contracts"
	"github.com/leandrodaf/cs9236/sdk/cs9236"
)

func main() {
	log := logger.NewZapLogger()

	ports, err := cs9236.ListPorts()
	if err != nil || len(ports) == 0 {
		log.Error("No serial ports found or error listing ports", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available serial ports:", ports)

	synth, err := cs9236.NewSynth(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithSerialConfig(contracts.SerialConfig{
			Port:        ports[0].Name,
			ModemReset:  true,
			ResetLine:   contracts.RTS,
			InvertReset: true,
		}),
	)
	if err != nil {
		log.Error("Failed to initialize synth", log.Field().Error("error", err))
		return
	}
	defer synth.Close()

	if err := synth.Init(); err != nil {
		log.Error("Failed to reset chip", log.Field().Error("error", err))
		return
	}
	defer synth.Shutdown()

	// Two semitone bend range, piano, a little reverb.
	synth.SetPitchBendSensitivity(0, 0x0200)
	synth.ProgramChange(0, 0)
	synth.SetReverb(0, 40)

	for _, key := range []uint8{60, 64, 67, 72} {
		synth.NoteOn(0, key, 100)
		time.Sleep(300 * time.Millisecond)
		synth.NoteOff(0, key)
	}

	synth.AllSoundsOff(0)

	// Keep the chip's active sensing satisfied for a moment before shutting down.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = cs9236.RunActiveSense(ctx, synth, 250*time.Millisecond)
}
