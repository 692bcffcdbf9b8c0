//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	var out bytes.Buffer
	var h HAL
	steps := 0
	err := RunHeadless(context.Background(), func(hh HAL) func() error {
		h = hh
		return func() error {
			steps++
			return nil
		}
	}, HeadlessConfig{Hz: 1000, Ticks: 5, ButtonPeriod: -1, Output: &out})
	require.NoError(t, err)
	assert.Positive(t, steps)

	h.LED().High()
	h.LED().High()
	h.LED().Low()
	assert.Equal(t, "led: HIGH\nled: LOW\n", out.String())

	require.NotNil(t, h.GPIO().Lookup(PinLED))
	require.NotNil(t, h.GPIO().Lookup(PinButton))
	assert.Equal(t, 320, h.Display().Framebuffer().Width())
}

func TestRunHeadlessStepError(t *testing.T) {
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), func(HAL) func() error {
		return func() error { return boom }
	}, HeadlessConfig{Hz: 1000, Output: &bytes.Buffer{}})
	assert.ErrorIs(t, err, boom)
}

func TestRunHeadlessCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := RunHeadless(ctx, func(HAL) func() error { return nil }, HeadlessConfig{Output: &bytes.Buffer{}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
