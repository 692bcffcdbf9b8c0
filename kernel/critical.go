package kernel

// EnterCritical masks every maskable interrupt and returns the mask that was
// in effect before. Pair it with ExitCritical on every path:
//
//	st := k.EnterCritical()
//	defer k.ExitCritical(st)
func (k *Kernel) EnterCritical() State {
	return k.cpu.disable()
}

// ExitCritical restores the mask saved by EnterCritical. Interrupts pended
// meanwhile are serviced only if that re-enables them.
func (k *Kernel) ExitCritical(st State) {
	k.cpu.restore(st)
}
