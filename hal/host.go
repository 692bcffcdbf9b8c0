//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   *pinSet
	button GPIOPin
	fb     *memFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
}

// New returns a host HAL implementation. The button pin follows the F1 key
// of the window backend.
func New() HAL {
	return newHostHAL(os.Stdout, newInputPin(PinButton), time.Millisecond)
}

func newHostHAL(w io.Writer, button GPIOPin, tick time.Duration) *hostHAL {
	logger := &hostLogger{w: w}
	led := &hostLED{logger: logger}
	h := &hostHAL{
		logger: logger,
		led:    led,
		button: button,
		fb:     newMemFramebuffer(320, 320),
		kbd:    newHostKeyboard(),
		t:      newHostTime(tick),
	}
	h.gpio = newPinSet(newLEDPin(PinLED, led), button)
	if p, ok := button.(*inputPin); ok {
		h.kbd.button = p
	}
	return h
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return display{fb: h.fb} }
func (h *hostHAL) Input() Input     { return input{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on == on {
		return
	}
	l.on = on
	if on {
		l.logger.WriteLineString("led: HIGH")
	} else {
		l.logger.WriteLineString("led: LOW")
	}
}
