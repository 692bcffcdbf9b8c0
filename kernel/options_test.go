package kernel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRates(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rates map[time.Duration]int
		want  bool
	}{
		{"default", defaultOptions().overflowRate, true},
		{"single", map[time.Duration]int{time.Hour: 2}, true},
		{"empty", map[time.Duration]int{}, false},
		{"zero count", map[time.Duration]int{time.Second: 0}, false},
		{"negative window", map[time.Duration]int{-time.Second: 1}, false},
		{"count not increasing", map[time.Duration]int{time.Second: 5, time.Minute: 5}, false},
		{"rate not decreasing", map[time.Duration]int{time.Second: 1, time.Minute: 120}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validRates(tc.rates))
		})
	}
}

func TestInvalidOverflowLogRateFallsBack(t *testing.T) {
	var buf syncBuffer
	var k *Kernel
	require.NotPanics(t, func() {
		k = New(
			WithLogger(newTestLogger(&buf)),
			WithOverflowLogRate(map[time.Duration]int{time.Second: 5, time.Minute: 5}),
		)
	})
	require.NotNil(t, k.overflow)
	assert.Contains(t, buf.String(), "invalid fifo overflow log rate")
}

func TestEmptyOverflowLogRateDisablesLimit(t *testing.T) {
	k := New(WithOverflowLogRate(map[time.Duration]int{}))
	assert.Nil(t, k.overflow)
}
