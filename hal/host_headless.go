//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the rate of the runner loop; each iteration advances time and
	// calls the app's step function.
	Hz int
	// Ticks stops the runner after this many ticks. Zero runs until ctx is
	// done.
	Ticks uint64
	// TickDuration is the wall time of one tick. Defaults to 1ms.
	TickDuration time.Duration
	// ButtonPeriod presses the simulated button once per period. Zero means
	// every 2s, negative never.
	ButtonPeriod time.Duration
	// Output receives log lines. Defaults to stdout.
	Output io.Writer
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var button GPIOPin
	switch {
	case cfg.ButtonPeriod < 0:
		button = newInputPin(PinButton)
	case cfg.ButtonPeriod == 0:
		button = newSignalPin(PinButton, 2*time.Second, 100*time.Millisecond)
	default:
		button = newSignalPin(PinButton, cfg.ButtonPeriod, cfg.ButtonPeriod/20)
	}

	h := newHostHAL(cfg.Output, button, cfg.TickDuration)
	h.t.limit = cfg.Ticks
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			h.t.advance(now)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if h.t.done() {
				return nil
			}
		}
	}
}
