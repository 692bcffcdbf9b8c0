package kernel

// ThreadState is the scheduling state of a thread as seen by AppendThreads.
type ThreadState uint8

const (
	ThreadRunnable ThreadState = iota
	ThreadRunning
	ThreadBlocked
	ThreadSleeping
)

func (s ThreadState) String() string {
	switch s {
	case ThreadRunnable:
		return "ready"
	case ThreadRunning:
		return "run"
	case ThreadBlocked:
		return "blocked"
	case ThreadSleeping:
		return "sleep"
	default:
		return "unknown"
	}
}

// ThreadInfo is a snapshot of one scheduled thread.
type ThreadInfo struct {
	ID       ThreadID
	Name     string
	Priority uint8
	State    ThreadState
	WakeTick uint32
}

// AddThread creates a thread running entry. Smaller priority values win.
// entry should never return; if it does the thread is killed.
func (k *Kernel) AddThread(entry func(), priority uint8, name string, id ThreadID) error {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	if !k.initialized {
		return ErrNotInitialized
	}
	if k.live == MaxThreads {
		k.log.Warning().
			Int("id", int(id)).
			Str("name", name).
			Log("thread limit reached")
		return ErrThreadLimitReached
	}
	if id == IdleThreadID {
		return ErrInvalidID
	}

	slot := k.addThread(entry, priority, name, id)
	k.log.Debug().
		Int("id", int(id)).
		Str("name", k.tcbs[slot].name).
		Int("priority", int(priority)).
		Int("slot", slot).
		Log("thread added")
	return nil
}

// addThread fills a free slot and links it after the running thread. The
// first thread forms a ring of one and becomes the running thread.
func (k *Kernel) addThread(entry func(), priority uint8, name string, id ThreadID) int {
	at := k.anchor()
	slot := k.freeSlot()
	if slot == k.used {
		k.used++
	}

	t := &k.tcbs[slot]
	*t = tcb{
		fiber:    newFiber(slot, entry),
		entry:    entry,
		priority: priority,
		alive:    true,
		id:       id,
		name:     truncateName(name),
	}

	if k.live == 0 {
		t.next = slot
		t.prev = slot
		k.current = slot
	} else {
		k.insertAfter(at, slot)
	}
	k.live++
	return slot
}

// anchor returns the alive slot new threads are linked after: the running
// thread, or the first alive successor if an interrupt handler killed it.
func (k *Kernel) anchor() int {
	n := k.current
	for i := 0; i < MaxThreads && !k.tcbs[n].alive; i++ {
		n = k.tcbs[n].next
	}
	return n
}

// Kill kills the thread with the given id. The idle thread and unknown ids
// are ignored. Killing the running thread reschedules immediately.
func (k *Kernel) Kill(id ThreadID) {
	st := k.EnterCritical()

	if id == IdleThreadID {
		k.ExitCritical(st)
		k.log.Debug().Log("kill of idle thread ignored")
		return
	}

	n := k.findThread(id)
	if n == noSlot {
		k.ExitCritical(st)
		k.log.Debug().Int("id", int(id)).Log("kill of unknown thread ignored")
		return
	}

	t := &k.tcbs[n]
	name := t.name
	// A dead waiter gives its place in the count back.
	if s := t.blockedOn; s != nil {
		s.count++
		t.blockedOn = nil
	}
	t.alive = false
	k.unlink(n)
	k.live--

	self := n == k.current
	f := t.fiber
	f.dead = true
	if f.started && !self {
		f.resume <- false
	}
	k.ExitCritical(st)

	k.log.Debug().Int("id", int(id)).Str("name", name).Log("thread killed")

	if self {
		k.Yield()
	}
}

// KillSelf kills the running thread. It does not return when called from a
// launched thread.
func (k *Kernel) KillSelf() {
	k.Kill(k.CurrentThread())
}

// AppendThreads appends a snapshot of every scheduled thread to dst in ring
// order, starting with the running thread.
func (k *Kernel) AppendThreads(dst []ThreadInfo) []ThreadInfo {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	cur := &k.tcbs[k.current]
	n, seen := k.current, 0
	for i := 0; i <= MaxThreads && seen < k.live; i++ {
		t := &k.tcbs[n]
		n = t.next
		if !t.alive {
			continue
		}
		seen++
		info := ThreadInfo{
			ID:       t.id,
			Name:     t.name,
			Priority: t.priority,
			WakeTick: t.wakeTick,
		}
		switch {
		case t == cur:
			info.State = ThreadRunning
		case t.blockedOn != nil:
			info.State = ThreadBlocked
		case t.asleep && t.wakeTick > k.ticks:
			info.State = ThreadSleeping
		}
		dst = append(dst, info)
	}
	return dst
}
