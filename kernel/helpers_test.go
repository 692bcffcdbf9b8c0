package kernel

import (
	"bytes"
	"sync"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

func newTestKernel(t *testing.T, opts ...Option) *Kernel {
	t.Helper()
	k := New(opts...)
	require.NoError(t, k.Init(nil))
	return k
}

// syncBuffer is a bytes.Buffer safe for a logger running on fiber goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(w *syncBuffer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger()
}

func nop() {}

// setCurrent makes the thread with the given id the running one, as if the
// selector had picked it.
func setCurrent(t *testing.T, k *Kernel, id ThreadID) {
	t.Helper()
	n := k.findThread(id)
	require.NotEqual(t, noSlot, n, "thread %d not found", id)
	k.current = n
}

// requireRing checks that the alive threads form one closed ring through the
// idle slot with consistent back links.
func requireRing(t *testing.T, k *Kernel) {
	t.Helper()
	n := idleSlot
	for i := 0; i < k.live; i++ {
		require.True(t, k.tcbs[n].alive, "slot %d in ring but dead", n)
		next := k.tcbs[n].next
		require.Equal(t, n, k.tcbs[next].prev, "slot %d: next.prev mismatch", n)
		n = next
	}
	require.Equal(t, idleSlot, n, "ring does not close after %d steps", k.live)
}

func ids(infos []ThreadInfo) []ThreadID {
	out := make([]ThreadID, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.ID)
	}
	return out
}
