//go:build !tinygo && !cgo

package hal

// hostKeyboard without cgo has no window to read keys from. The channel is
// never written, and the button pin stays wherever the HAL set it.
type hostKeyboard struct {
	ch     chan KeyEvent
	button *inputPin
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 1)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) poll() {}
