//go:build !tinygo && !cgo

package hal

import "fmt"

// RunWindow needs ebiten, which needs cgo. Use RunHeadless instead.
func RunWindow(func(HAL) func() error) error {
	return fmt.Errorf("window mode needs cgo (CGO_ENABLED=1), try -headless: %w", ErrNotImplemented)
}
