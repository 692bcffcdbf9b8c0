package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphoreWaitWithoutBlocking(t *testing.T) {
	k := newTestKernel(t)
	var s Semaphore
	k.InitSemaphore(&s, 2)

	k.Wait(&s)
	k.Wait(&s)
	assert.Equal(t, int32(0), s.Value())
	assert.Nil(t, k.tcbs[k.current].blockedOn)
}

func TestSemaphoreWakesInRingOrder(t *testing.T) {
	k := newTestKernel(t)
	// Ring after these adds: idle, c, b, a.
	require.NoError(t, k.AddThread(nop, 1, "a", 1))
	require.NoError(t, k.AddThread(nop, 1, "b", 2))
	require.NoError(t, k.AddThread(nop, 1, "c", 3))

	var s Semaphore
	k.InitSemaphore(&s, 0)

	setCurrent(t, k, 2)
	k.Wait(&s)
	setCurrent(t, k, 3)
	k.Wait(&s)
	require.Equal(t, int32(-2), s.Value())

	// b waited first, but c is reached first walking from a.
	setCurrent(t, k, 1)
	k.Signal(&s)
	assert.Equal(t, int32(-1), s.Value())
	assert.Nil(t, k.tcbs[k.findThread(3)].blockedOn)
	assert.Same(t, &s, k.tcbs[k.findThread(2)].blockedOn)

	k.Signal(&s)
	assert.Equal(t, int32(0), s.Value())
	assert.Nil(t, k.tcbs[k.findThread(2)].blockedOn)

	k.Signal(&s)
	assert.Equal(t, int32(1), s.Value())
}

func TestSemaphoreSignalWakesRunningThreadLast(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.AddThread(nop, 1, "a", 1))

	var s Semaphore
	setCurrent(t, k, 1)
	k.Wait(&s)

	// A handler signals while the blocked thread is still the running one.
	k.Signal(&s)
	assert.Nil(t, k.tcbs[k.current].blockedOn)
}

func TestSemaphoreSignalWithKilledWaiter(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.AddThread(nop, 1, "a", 1))
	require.NoError(t, k.AddThread(nop, 1, "b", 2))

	var s Semaphore
	setCurrent(t, k, 2)
	k.Wait(&s)
	require.Equal(t, int32(-1), s.Value())
	setCurrent(t, k, 1)
	k.Kill(2)
	assert.Equal(t, int32(0), s.Value())

	k.Signal(&s)
	assert.Equal(t, int32(1), s.Value())
	k.Wait(&s)
	assert.Nil(t, k.tcbs[k.current].blockedOn, "the count was free, so Wait must not block")
}

func TestSemaphoreKillOneOfManyWaiters(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.AddThread(nop, 1, "a", 1))
	require.NoError(t, k.AddThread(nop, 1, "b", 2))
	require.NoError(t, k.AddThread(nop, 1, "c", 3))

	var s Semaphore
	setCurrent(t, k, 2)
	k.Wait(&s)
	setCurrent(t, k, 3)
	k.Wait(&s)
	require.Equal(t, int32(-2), s.Value())

	setCurrent(t, k, 1)
	k.Kill(2)
	assert.Equal(t, int32(-1), s.Value())

	k.Signal(&s)
	assert.Equal(t, int32(0), s.Value())
	assert.Nil(t, k.tcbs[k.findThread(3)].blockedOn)
}

func TestSemaphoreCounterLaw(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.AddThread(nop, 1, "a", 1))
	setCurrent(t, k, 1)

	var s Semaphore
	k.InitSemaphore(&s, 3)
	waits, signals := 0, 0
	for i := 0; i < 10; i++ {
		if i%3 == 0 {
			k.Signal(&s)
			signals++
		} else {
			k.Wait(&s)
			waits++
		}
		assert.Equal(t, int32(3+signals-waits), s.Value())
		k.tcbs[k.current].blockedOn = nil
	}
}
