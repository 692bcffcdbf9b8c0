//go:build !tinygo

package hal

import "time"

// hostTime turns wall time into a tick stream. It is advanced by the runner
// loop; ticks that do not fit the channel are dropped.
type hostTime struct {
	ch  chan uint64
	seq uint64

	tick  time.Duration
	limit uint64

	last time.Time
	acc  time.Duration
}

func newHostTime(tick time.Duration) *hostTime {
	if tick <= 0 {
		tick = time.Millisecond
	}
	return &hostTime{ch: make(chan uint64, 1024), tick: tick}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// advance emits one tick per elapsed tick duration since the previous call.
// The first call emits a single tick.
func (t *hostTime) advance(now time.Time) {
	if t.last.IsZero() {
		t.last = now
		t.stepN(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / t.tick)
	if n == 0 {
		return
	}
	t.acc %= t.tick
	t.stepN(n)
}

func (t *hostTime) stepN(n uint64) {
	if t.limit > 0 {
		n = min(n, t.limit-t.seq)
	}
	for i := uint64(0); i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}

// done reports whether the tick limit has been reached.
func (t *hostTime) done() bool {
	return t.limit > 0 && t.seq >= t.limit
}
