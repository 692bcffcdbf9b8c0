package kernel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want Status
		ok   bool
	}{
		{nil, StatusOK, true},
		{ErrThreadLimitReached, -1, true},
		{ErrNotInitialized, -2, true},
		{ErrIRQInvalid, -6, true},
		{ErrHWIPriorityInvalid, -7, true},
		{ErrInvalidID, -8, true},
		{fmt.Errorf("add worker: %w", ErrFIFOFull), StatusFIFOFull, true},
		{errors.New("other"), StatusOK, false},
	} {
		got, ok := StatusOf(tc.err)
		assert.Equal(t, tc.want, got, "%v", tc.err)
		assert.Equal(t, tc.ok, ok, "%v", tc.err)
	}
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, "kernel: fifo full", ErrFIFOFull.Error())
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", ErrInvalidID), ErrInvalidID))
	assert.False(t, errors.Is(ErrInvalidID, ErrIRQInvalid))
	assert.Equal(t, "unknown", Status(-100).String())
}
