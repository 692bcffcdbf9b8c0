package kernel

// AddPeriodic registers entry to run from the SysTick handler at tick
// now+offset and then every period ticks. Periodic tasks run in handler mode
// and must not block.
func (k *Kernel) AddPeriodic(entry func(), period, offset uint32, id PeriodicID) error {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	if !k.initialized {
		return ErrNotInitialized
	}
	if k.periodic == MaxPeriodic {
		k.log.Warning().Int("id", int(id)).Log("periodic limit reached")
		return ErrPeriodicLimitReached
	}

	n := k.periodic
	p := &k.ptcbs[n]
	*p = ptcb{
		entry:    entry,
		period:   period,
		nextExec: k.ticks + offset,
		id:       id,
	}
	if n == 0 {
		p.next, p.prev = 0, 0
	} else {
		// Append before the head to keep registration order.
		last := k.ptcbs[0].prev
		p.prev = last
		p.next = 0
		k.ptcbs[last].next = n
		k.ptcbs[0].prev = n
	}
	k.periodic++

	k.log.Debug().
		Int("id", int(id)).
		Int("period", int(period)).
		Int("next", int(p.nextExec)).
		Log("periodic added")
	return nil
}

// ChangePeriod sets the period of the first periodic task with the given id.
// The next deadline is unchanged. Unknown ids are ignored.
func (k *Kernel) ChangePeriod(id PeriodicID, period uint32) {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	n := 0
	for i := 0; i < k.periodic; i++ {
		p := &k.ptcbs[n]
		if p.id == id {
			p.period = period
			return
		}
		n = p.next
	}
}

// AddAperiodic attaches entry to peripheral interrupt irq with the given
// hardware priority and enables it. priority must be more urgent than
// SysTick.
func (k *Kernel) AddAperiodic(entry func(), priority uint8, irq IRQ) error {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	if irq < IRQFirstPeripheral || irq > IRQLastPeripheral {
		k.log.Warning().Int("irq", int(irq)).Log("invalid irq")
		return ErrIRQInvalid
	}
	if priority >= SysTickPriority {
		k.log.Warning().
			Int("irq", int(irq)).
			Int("priority", int(priority)).
			Log("invalid hardware priority")
		return ErrHWIPriorityInvalid
	}

	k.cpu.setVector(irq, entry, priority)
	k.cpu.enable(irq)

	k.log.Debug().
		Int("irq", int(irq)).
		Int("priority", int(priority)).
		Log("aperiodic added")
	return nil
}
