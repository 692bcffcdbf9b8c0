package kernel

import (
	"slices"
	"time"

	"github.com/joeycumines/logiface"
)

// Option configures a Kernel.
type Option func(*options)

type options struct {
	logger       *logiface.Logger[logiface.Event]
	switchHook   func(Switch)
	faultHandler func(FaultInfo)
	overflowRate map[time.Duration]int
}

// Switch describes one context switch.
type Switch struct {
	From ThreadID
	To   ThreadID
	Tick uint32
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(o *options) { o.logger = l }
}

// WithSwitchHook installs a callback run on every context switch. It runs in
// the PendSV handler and must not call back into the kernel.
func WithSwitchHook(fn func(Switch)) Option {
	return func(o *options) { o.switchHook = fn }
}

// WithFaultHandler installs a callback for threads that panic.
func WithFaultHandler(fn func(FaultInfo)) Option {
	return func(o *options) { o.faultHandler = fn }
}

// WithOverflowLogRate limits "fifo full" warnings per FIFO. rates maps a
// window to the number of warnings allowed within it. Every window and count
// must be positive, and longer windows must allow more events at a lower
// rate; otherwise the default rates are used. An empty map disables the
// limit.
func WithOverflowLogRate(rates map[time.Duration]int) Option {
	return func(o *options) { o.overflowRate = rates }
}

// validRates reports whether catrate.NewLimiter accepts rates.
func validRates(rates map[time.Duration]int) bool {
	windows := make([]time.Duration, 0, len(rates))
	for w := range rates {
		windows = append(windows, w)
	}
	slices.Sort(windows)

	for i, w := range windows {
		n := rates[w]
		if n <= 0 || w <= 0 {
			return false
		}
		if i == 0 {
			continue
		}
		prev := windows[i-1]
		if rates[prev] >= n || float64(n)/float64(w) >= float64(rates[prev])/float64(prev) {
			return false
		}
	}
	return len(windows) > 0
}

func defaultOptions() options {
	return options{
		overflowRate: map[time.Duration]int{
			time.Second:     1,
			time.Minute / 2: 5,
		},
	}
}
