package cs9236

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/cs9236/sdk/contracts"
)

// ErrSenseInterval is returned for keepalive intervals the chip would treat as silence.
var ErrSenseInterval = errors.New("active sense interval must be positive and shorter than the chip timeout")

// RunActiveSense calls Poll every interval until ctx is done, and returns
// ctx.Err(). It blocks; run it in its own goroutine. The synth does no
// locking, so other writers must not use it concurrently.
func RunActiveSense(ctx context.Context, synth contracts.Synth, interval time.Duration) error {
	if interval <= 0 || interval >= contracts.ActiveSenseTimeout {
		return fmt.Errorf("%w: %s (timeout %s)", ErrSenseInterval, interval, contracts.ActiveSenseTimeout)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	synth.Poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			synth.Poll()
		}
	}
}
