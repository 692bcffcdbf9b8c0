package kernel

import (
	"errors"
	"fmt"
)

// FaultInfo describes a thread that panicked.
type FaultInfo struct {
	ThreadID ThreadID
	Name     string
	Value    any
	Stack    []byte
}

// errInvalidState is the usage fault raised when a thread is restored from a
// frame without the Thumb bit set.
var errInvalidState = errors.New("kernel: invalid state: xpsr thumb bit clear")

// recoverFault must be deferred by every fiber goroutine. A panic, including
// one raised by an interrupt handler running on the fiber, is charged to the
// running thread, which is reported and killed.
func (k *Kernel) recoverFault(f *fiber) {
	r := recover()
	if r == nil {
		return
	}

	// The panic may have unwound out of a handler. Return to thread mode
	// without servicing anything until the thread is gone.
	k.cpu.active = false
	k.cpu.primask = false

	t := &k.tcbs[f.slot]
	info := FaultInfo{
		ThreadID: t.id,
		Name:     t.name,
		Value:    r,
		Stack:    captureStack(),
	}

	b := k.log.Crit().
		Int("id", int(info.ThreadID)).
		Str("name", info.Name)
	if err, ok := r.(error); ok {
		b = b.Err(err)
	} else {
		b = b.Str("panic", fmt.Sprint(r))
	}
	b.Log("thread fault")

	if k.faultHandler != nil {
		k.faultHandler(info)
	}

	k.KillSelf()

	// Only the idle thread survives KillSelf.
	for {
		k.WaitForInterrupt()
	}
}
