package kernel

import "runtime"

// schedule selects the next thread: the first valid thread after the
// running one whose priority is the minimum among all valid threads. If no
// thread is valid the running thread keeps the CPU.
func (k *Kernel) schedule() {
	start := k.tcbs[k.current].next
	// A running thread that just killed itself still links into the ring,
	// but its neighbour may have died since.
	for i := 0; i < MaxThreads && !k.tcbs[start].alive; i++ {
		start = k.tcbs[start].next
	}

	top := IdlePriority
	found := false
	n := start
	for i := 0; i < k.live; i++ {
		if k.valid(n) && (!found || k.tcbs[n].priority < top) {
			top = k.tcbs[n].priority
			found = true
		}
		n = k.tcbs[n].next
	}
	if !found {
		return
	}

	n = start
	for i := 0; i < k.live; i++ {
		if k.valid(n) && k.tcbs[n].priority == top {
			k.current = n
			return
		}
		n = k.tcbs[n].next
	}
}

// pendSV is the PendSV handler: pick the next thread and, if it differs,
// hand it the CPU and park the outgoing fiber.
func (k *Kernel) pendSV() {
	if k.halting.Load() {
		k.exitFiber()
	}

	prev := k.running
	from := k.tcbs[k.current].id
	k.schedule()
	next := k.tcbs[k.current].fiber
	if next == prev {
		return
	}

	k.switches++
	if k.switchHook != nil {
		k.switchHook(Switch{From: from, To: k.tcbs[k.current].id, Tick: k.ticks})
	}

	// Once next holds the CPU it may kill prev, so read prev's state first.
	dead := prev == nil || prev.dead
	k.running = next
	k.restore(next)
	if dead {
		k.exitFiber()
	}
	k.park(prev)
}

// restore hands the CPU to f. New and preempted fibers resume the same way;
// a new fiber's goroutine is started on its first restore.
func (k *Kernel) restore(f *fiber) {
	if !f.started {
		f.started = true
		k.spawn(f)
	}
	f.resume <- true
}

// park blocks the calling fiber until it is handed the CPU again.
func (k *Kernel) park(f *fiber) {
	select {
	case run := <-f.resume:
		if !run {
			k.exitFiber()
		}
	case <-k.halt:
		k.exitFiber()
	}
}

// spawn starts the goroutine behind f. It waits for its first restore, then
// performs the exception return and jumps to the frame's pc.
func (k *Kernel) spawn(f *fiber) {
	k.fibers.Add(1)
	go func() {
		defer k.fibers.Done()
		defer k.recoverFault(f)

		k.park(f)
		k.cpu.exit()
		if f.frame.xpsr&thumbBit == 0 {
			panic(errInvalidState)
		}
		k.cpu.window()
		f.frame.pc()

		// Thread entries are not supposed to return.
		k.KillSelf()
	}()
}

// exitFiber ends the calling fiber's goroutine.
func (k *Kernel) exitFiber() {
	runtime.Goexit()
}

// Yield requests a reschedule. It takes effect at the next interrupt window:
// immediately in thread mode, after the handler returns in an interrupt.
func (k *Kernel) Yield() {
	st := k.EnterCritical()
	k.cpu.pend(IRQPendSV)
	k.ExitCritical(st)
}

// Sleep marks the running thread asleep for ticks ticks and yields. It wakes
// no earlier than now+ticks.
func (k *Kernel) Sleep(ticks uint32) {
	st := k.EnterCritical()
	t := &k.tcbs[k.current]
	t.asleep = true
	t.wakeTick = k.ticks + ticks
	k.ExitCritical(st)

	k.Yield()
}

// sysTick is the SysTick handler: advance time, run periodic tasks due at
// exactly this tick, then request a reschedule.
func (k *Kernel) sysTick() {
	k.ticks++

	n := 0
	for i := 0; i < k.periodic; i++ {
		p := &k.ptcbs[n]
		if p.nextExec == k.ticks {
			p.entry()
			p.nextExec += p.period
		}
		n = p.next
	}

	k.Yield()
}
