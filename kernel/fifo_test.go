package kernel

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOIndex(t *testing.T) {
	k := newTestKernel(t)

	for _, i := range []int{-1, FIFOCount} {
		assert.ErrorIs(t, k.InitFIFO(i), ErrFIFOIndex)
		assert.ErrorIs(t, k.WriteFIFO(i, 1), ErrFIFOIndex)
		_, err := k.ReadFIFO(i)
		assert.ErrorIs(t, err, ErrFIFOIndex)
		assert.True(t, k.FIFOEmpty(i))
		assert.Zero(t, k.FIFOLost(i))
	}
}

func TestFIFONotInitialized(t *testing.T) {
	k := newTestKernel(t)

	assert.ErrorIs(t, k.WriteFIFO(1, 1), ErrFIFONotInitialized)
	_, err := k.ReadFIFO(1)
	assert.ErrorIs(t, err, ErrFIFONotInitialized)
}

func TestFIFOFillAndDrain(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.InitFIFO(0))
	require.True(t, k.FIFOEmpty(0))

	for i := 0; i < FIFOCapacity; i++ {
		require.NoError(t, k.WriteFIFO(0, int32(i*10)))
	}
	assert.ErrorIs(t, k.WriteFIFO(0, 999), ErrFIFOFull)
	assert.ErrorIs(t, k.WriteFIFO(0, 999), ErrFIFOFull)
	assert.Equal(t, uint32(2), k.FIFOLost(0))
	assert.False(t, k.FIFOEmpty(0))

	for i := 0; i < FIFOCapacity; i++ {
		v, err := k.ReadFIFO(0)
		require.NoError(t, err)
		require.Equal(t, int32(i*10), v)
	}
	assert.True(t, k.FIFOEmpty(0))
	assert.Equal(t, int32(1), k.fifos[0].mutex.Value())
}

func TestFIFOKilledReaderKeepsCapacity(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.InitFIFO(0))
	require.NoError(t, k.AddThread(nop, 1, "reader", 1))
	require.NoError(t, k.AddThread(nop, 1, "writer", 2))

	// The reader blocks on the empty FIFO's count, as ReadFIFO does.
	setCurrent(t, k, 1)
	k.Wait(&k.fifos[0].size)
	require.Equal(t, int32(-1), k.fifos[0].size.Value())

	setCurrent(t, k, 2)
	k.Kill(1)
	require.Equal(t, int32(0), k.fifos[0].size.Value())
	require.True(t, k.FIFOEmpty(0))

	for i := 0; i < FIFOCapacity; i++ {
		require.NoError(t, k.WriteFIFO(0, int32(i)))
	}
	assert.ErrorIs(t, k.WriteFIFO(0, 99), ErrFIFOFull)
	assert.Equal(t, uint32(1), k.FIFOLost(0))

	for i := 0; i < FIFOCapacity; i++ {
		v, err := k.ReadFIFO(0)
		require.NoError(t, err)
		require.Equal(t, int32(i), v)
	}
	assert.True(t, k.FIFOEmpty(0))
}

func TestFIFOWrapsAround(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.InitFIFO(2))

	next := int32(0)
	want := int32(0)
	for round := 0; round < 5; round++ {
		for i := 0; i < 11; i++ {
			require.NoError(t, k.WriteFIFO(2, next))
			next++
		}
		for i := 0; i < 11; i++ {
			v, err := k.ReadFIFO(2)
			require.NoError(t, err)
			require.Equal(t, want, v)
			want++
		}
	}
	assert.Zero(t, k.FIFOLost(2))
}

func TestFIFOsAreIndependent(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.InitFIFO(0))
	require.NoError(t, k.InitFIFO(1))

	require.NoError(t, k.WriteFIFO(1, -7))
	assert.True(t, k.FIFOEmpty(0))
	v, err := k.ReadFIFO(1)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), v)
}

func TestInitFIFOResetsLost(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.InitFIFO(3))
	for i := 0; i <= FIFOCapacity; i++ {
		_ = k.WriteFIFO(3, 1)
	}
	require.Equal(t, uint32(1), k.FIFOLost(3))

	require.NoError(t, k.InitFIFO(3))
	assert.Zero(t, k.FIFOLost(3))
	assert.True(t, k.FIFOEmpty(3))
}

func TestFIFOOverflowWarningsAreRateLimited(t *testing.T) {
	var buf syncBuffer
	k := newTestKernel(t,
		WithLogger(newTestLogger(&buf)),
		WithOverflowLogRate(map[time.Duration]int{time.Hour: 2}),
	)
	require.NoError(t, k.InitFIFO(0))
	require.NoError(t, k.InitFIFO(1))
	for i := 0; i < FIFOCapacity; i++ {
		require.NoError(t, k.WriteFIFO(0, 1))
		require.NoError(t, k.WriteFIFO(1, 1))
	}

	for i := 0; i < 10; i++ {
		require.ErrorIs(t, k.WriteFIFO(0, 1), ErrFIFOFull)
	}
	require.ErrorIs(t, k.WriteFIFO(1, 1), ErrFIFOFull)

	assert.Equal(t, uint32(10), k.FIFOLost(0))
	assert.Equal(t, 3, strings.Count(buf.String(), `"msg":"fifo full"`))
}
