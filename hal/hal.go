package hal

import "errors"

// Logger is the board's line sink: the UART on TinyGo, stdout on the host.
// The kernel's JSON log reaches it through a LineWriter.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is the heartbeat output.
type LED interface {
	High()
	Low()
}

// ErrNotImplemented is returned by devices a board does not have.
var ErrNotImplemented = errors.New("not implemented")

// PixelFormat is the framebuffer encoding. Only RGB565 is produced.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp little endian: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is the monitor's drawing surface. Present pushes the buffer
// to the panel or window.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode names the keys that steer the demo. Other keys arrive as runes
// or not at all.
type KeyCode uint8

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeySpace
)

// KeyEvent is one press or release. Printable input sets Rune instead of
// Code.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard delivers key events. Events are dropped when nobody reads.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display exposes the framebuffer, if the board has one.
type Display interface {
	Framebuffer() Framebuffer
}

// Input exposes the keyboard, if the board has one.
type Input interface {
	Keyboard() Keyboard
}

// Time provides the base tick stream. Each value is a running sequence
// number; one tick is one kernel SysTick.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is everything the kernel demo touches outside the kernel: the tick
// source that drives SysTick, the button routed to an aperiodic interrupt,
// and the devices the threads drive.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Display() Display
	Input() Input
	Time() Time
}
