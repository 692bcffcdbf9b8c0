package kernel

// Semaphore is a counting semaphore. A negative count is the number of
// threads blocked on it. Waiters are not queued: Signal finds one by walking
// the thread ring.
type Semaphore struct {
	count int32
}

// Value returns the current count. Call it from a thread or a handler.
func (s *Semaphore) Value() int32 { return s.count }

// InitSemaphore sets the count of s to v.
func (k *Kernel) InitSemaphore(s *Semaphore, v int32) {
	st := k.EnterCritical()
	s.count = v
	k.ExitCritical(st)
}

// Wait decrements s and blocks the running thread if the count went
// negative.
func (k *Kernel) Wait(s *Semaphore) {
	st := k.EnterCritical()
	s.count--
	if s.count >= 0 {
		k.ExitCritical(st)
		return
	}
	k.tcbs[k.current].blockedOn = s
	k.ExitCritical(st)

	k.Yield()
}

// Signal increments s. If threads are blocked on it, the first one in ring
// order after the running thread is made runnable. Signal never yields.
func (k *Kernel) Signal(s *Semaphore) {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	s.count++
	if s.count > 0 {
		return
	}

	n := k.tcbs[k.current].next
	for i := 0; i <= k.live; i++ {
		t := &k.tcbs[n]
		if t.alive && t.blockedOn == s {
			t.blockedOn = nil
			return
		}
		n = t.next
	}
	// The waiter was killed while blocked.
	k.log.Debug().Int("count", int(s.count)).Log("signal found no waiter")
}
