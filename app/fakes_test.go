package app

import (
	"strings"
	"sync"
	"sync/atomic"

	"ember/hal"
)

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *fakeLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *fakeLogger) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type fakeLED struct{ toggles atomic.Int32 }

func (l *fakeLED) High() { l.toggles.Add(1) }
func (l *fakeLED) Low()  { l.toggles.Add(1) }

type fakePin struct {
	name  string
	level atomic.Bool
}

func (p *fakePin) Name() string                 { return p.name }
func (p *fakePin) Configure(hal.GPIOMode) error { return nil }
func (p *fakePin) Read() (bool, error)          { return p.level.Load(), nil }
func (p *fakePin) Write(level bool) error {
	p.level.Store(level)
	return nil
}

type fakeGPIO struct{ pins []hal.GPIOPin }

func (g *fakeGPIO) PinCount() int          { return len(g.pins) }
func (g *fakeGPIO) Pin(id int) hal.GPIOPin { return g.pins[id] }
func (g *fakeGPIO) Lookup(name string) hal.GPIOPin {
	for _, p := range g.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

type fakeFramebuffer struct {
	w, h     int
	buf      []byte
	presents atomic.Int32
}

func newFakeFramebuffer(w, h int) *fakeFramebuffer {
	return &fakeFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFramebuffer) Width() int              { return f.w }
func (f *fakeFramebuffer) Height() int             { return f.h }
func (f *fakeFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFramebuffer) StrideBytes() int        { return f.w * 2 }
func (f *fakeFramebuffer) Buffer() []byte          { return f.buf }
func (f *fakeFramebuffer) Present() error {
	f.presents.Add(1)
	return nil
}

func (f *fakeFramebuffer) ClearRGB(r, g, b uint8) {
	p := rgb565From888(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

// countPixels returns how many pixels differ from the RGB565 value bg.
func (f *fakeFramebuffer) countPixels(bg uint16) int {
	n := 0
	for i := 0; i+1 < len(f.buf); i += 2 {
		if uint16(f.buf[i])|uint16(f.buf[i+1])<<8 != bg {
			n++
		}
	}
	return n
}

type fakeDisplay struct{ fb hal.Framebuffer }

func (d fakeDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeInput struct{ kbd hal.Keyboard }

func (in fakeInput) Keyboard() hal.Keyboard { return in.kbd }

type fakeTime struct{ ch chan uint64 }

func (t fakeTime) Ticks() <-chan uint64 { return t.ch }

type fakeHAL struct {
	logger *fakeLogger
	led    *fakeLED
	button *fakePin
	fb     *fakeFramebuffer
	keys   chan hal.KeyEvent
	ticks  chan uint64
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		logger: &fakeLogger{},
		led:    &fakeLED{},
		button: &fakePin{name: hal.PinButton},
		fb:     newFakeFramebuffer(160, 240),
		keys:   make(chan hal.KeyEvent, 16),
		ticks:  make(chan uint64, 1024),
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.logger }
func (h *fakeHAL) LED() hal.LED         { return h.led }
func (h *fakeHAL) GPIO() hal.GPIO       { return &fakeGPIO{pins: []hal.GPIOPin{h.button}} }
func (h *fakeHAL) Display() hal.Display { return fakeDisplay{fb: h.fb} }
func (h *fakeHAL) Input() hal.Input     { return fakeInput{kbd: fakeKeyboard{ch: h.keys}} }
func (h *fakeHAL) Time() hal.Time       { return fakeTime{ch: h.ticks} }
