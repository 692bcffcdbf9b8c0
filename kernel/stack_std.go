//go:build !tinygo

package kernel

import "runtime/debug"

// captureStack returns the faulting fiber's goroutine stack. It runs inside
// the deferred recover, so the panic site is still on the stack.
func captureStack() []byte {
	return debug.Stack()
}
