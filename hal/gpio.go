package hal

import (
	"fmt"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIO provides access to a small set of named digital pins.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
	// Lookup returns the pin with the given name, or nil.
	Lookup(name string) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Configure(mode GPIOMode) error
	Read() (level bool, err error)
	Write(level bool) error
}

// Pin names every HAL provides. PinButton is an active-high push button.
const (
	PinLED    = "LED"
	PinButton = "BTN"
)

type pinSet struct {
	pins []GPIOPin
}

func newPinSet(pins ...GPIOPin) *pinSet {
	return &pinSet{pins: pins}
}

func (g *pinSet) PinCount() int { return len(g.pins) }

func (g *pinSet) Pin(id int) GPIOPin {
	if id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

func (g *pinSet) Lookup(name string) GPIOPin {
	for _, p := range g.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// inputPin is an input whose level is driven from the HAL side (a host key,
// a test).
type inputPin struct {
	mu    sync.Mutex
	name  string
	level bool
}

func newInputPin(name string) *inputPin {
	return &inputPin{name: name}
}

func (p *inputPin) Name() string { return p.name }

func (p *inputPin) Configure(mode GPIOMode) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	return nil
}

func (p *inputPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *inputPin) Write(bool) error {
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

func (p *inputPin) set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// signalPin is an input producing a square wave: high for the first high of
// every period.
type signalPin struct {
	name   string
	t0     time.Time
	now    func() time.Time
	period time.Duration
	high   time.Duration
}

func newSignalPin(name string, period, high time.Duration) GPIOPin {
	return newSignalPinWithClock(name, period, high, time.Now)
}

func newSignalPinWithClock(name string, period, high time.Duration, now func() time.Time) GPIOPin {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = time.Second
	}
	high = min(max(high, 0), period)
	return &signalPin{
		name:   name,
		t0:     now(),
		now:    now,
		period: period,
		high:   high,
	}
}

func (p *signalPin) Name() string { return p.name }

func (p *signalPin) Configure(mode GPIOMode) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	return nil
}

func (p *signalPin) Read() (bool, error) {
	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return elapsed%p.period < p.high, nil
}

func (p *signalPin) Write(bool) error {
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// ledPin exposes an LED as an output pin.
type ledPin struct {
	mu    sync.Mutex
	led   LED
	name  string
	level bool
}

func newLEDPin(name string, led LED) *ledPin {
	return &ledPin{led: led, name: name}
}

func (p *ledPin) Name() string { return p.name }

func (p *ledPin) Configure(mode GPIOMode) error {
	if mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	return nil
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}

// Edge detects rising edges on an input pin. It is the polled stand-in for
// a GPIO edge interrupt: call Rising once per tick.
type Edge struct {
	pin  GPIOPin
	last bool
}

func NewEdge(pin GPIOPin) *Edge {
	return &Edge{pin: pin}
}

// Rising reports whether the pin went from low to high since the last call.
// Read errors count as low.
func (e *Edge) Rising() bool {
	if e == nil || e.pin == nil {
		return false
	}
	level, err := e.pin.Read()
	if err != nil {
		level = false
	}
	rose := level && !e.last
	e.last = level
	return rose
}
