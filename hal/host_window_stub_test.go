//go:build !tinygo && !cgo

package hal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWindowNeedsCgo(t *testing.T) {
	called := false
	err := RunWindow(func(HAL) func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrNotImplemented)
	require.False(t, called)
}
