package hal

import "sync"

// memFramebuffer is an RGB565 framebuffer in plain memory. Present bumps a
// frame counter; the host window copies the pixels out on its own schedule.
type memFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
	frames uint64
}

func newMemFramebuffer(width, height int) *memFramebuffer {
	stride := width * 2
	return &memFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *memFramebuffer) Width() int          { return f.width }
func (f *memFramebuffer) Height() int         { return f.height }
func (f *memFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *memFramebuffer) StrideBytes() int    { return f.stride }
func (f *memFramebuffer) Buffer() []byte      { return f.buf }

func (f *memFramebuffer) Present() error {
	f.mu.Lock()
	f.frames++
	f.mu.Unlock()
	return nil
}

func (f *memFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// snapshotRGB565 copies the pixels into dst and returns the number of
// frames presented so far.
func (f *memFramebuffer) snapshotRGB565(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
	return f.frames
}

// nullFramebuffer is a zero-sized framebuffer for boards without a display.
type nullFramebuffer struct{}

func (nullFramebuffer) Width() int          { return 0 }
func (nullFramebuffer) Height() int         { return 0 }
func (nullFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (nullFramebuffer) StrideBytes() int    { return 0 }
func (nullFramebuffer) Buffer() []byte      { return nil }
func (nullFramebuffer) Present() error      { return ErrNotImplemented }

func (nullFramebuffer) ClearRGB(_, _, _ uint8) {}

type display struct {
	fb Framebuffer
}

func (d display) Framebuffer() Framebuffer { return d.fb }

type input struct {
	kbd Keyboard
}

func (in input) Keyboard() Keyboard { return in.kbd }

// nullKeyboard never produces events.
type nullKeyboard struct{}

func (nullKeyboard) Events() <-chan KeyEvent { return nil }
