package kernel

import "sync/atomic"

// IRQ is a vector number in the Cortex-M layout: 0..15 are system
// exceptions, 16 and up are peripheral interrupts.
type IRQ int32

const (
	IRQPendSV  IRQ = 14
	IRQSysTick IRQ = 15

	// IRQFirstPeripheral and IRQLastPeripheral bound the vectors an
	// aperiodic event may be attached to.
	IRQFirstPeripheral IRQ = 16
	IRQLastPeripheral  IRQ = 154

	numVectors = int(IRQLastPeripheral) + 1
)

// Exception priorities. Lower values are more urgent; aperiodic events must
// sit strictly below SysTickPriority.
const (
	SysTickPriority uint8 = 6
	PendSVPriority  uint8 = 7
)

// State is the interrupt mask in effect before a critical section was
// entered.
type State bool

const (
	stateEnabled State = false
	stateMasked  State = true
)

type vector struct {
	handler  func()
	priority uint8
	enabled  bool
}

// cpu is the single processor core: the interrupt mask, handler mode and the
// vector table. Only the goroutine holding the CPU touches anything but
// pending and wake.
type cpu struct {
	primask bool
	active  bool

	vectors [numVectors]vector
	pending [numVectors]atomic.Int32

	wake chan struct{}
}

func newCPU() *cpu {
	return &cpu{
		// Interrupts stay masked from reset until launch.
		primask: true,
		wake:    make(chan struct{}, 1),
	}
}

// disable masks interrupts and returns the previous mask.
func (c *cpu) disable() State {
	prev := State(c.primask)
	c.primask = true
	return prev
}

// restore puts the mask back to prev, servicing pending vectors when that
// re-enables interrupts in thread mode.
func (c *cpu) restore(prev State) {
	if prev == stateMasked {
		return
	}
	c.primask = false
	c.window()
}

func (c *cpu) setVector(irq IRQ, handler func(), priority uint8) {
	v := &c.vectors[irq]
	v.handler = handler
	v.priority = priority
}

func (c *cpu) enable(irq IRQ) {
	v := &c.vectors[irq]
	v.enabled = v.handler != nil
}

// pend raises irq. It is safe to call from any goroutine. SysTick counts
// every raise; everything else has a single pending bit.
func (c *cpu) pend(irq IRQ) {
	p := &c.pending[irq]
	if irq == IRQSysTick {
		p.Add(1)
	} else {
		p.CompareAndSwap(0, 1)
	}
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// clear drops every pending raise of irq.
func (c *cpu) clear(irq IRQ) { c.pending[irq].Store(0) }

// next returns the most urgent pending and enabled vector.
func (c *cpu) next() (IRQ, bool) {
	best := IRQ(-1)
	var bestPrio uint8
	for i := range c.vectors {
		v := &c.vectors[i]
		if !v.enabled || c.pending[i].Load() <= 0 {
			continue
		}
		if best < 0 || v.priority < bestPrio {
			best = IRQ(i)
			bestPrio = v.priority
		}
	}
	return best, best >= 0
}

// window services pending vectors while interrupts are enabled in thread
// mode. Handlers run masked and do not nest.
func (c *cpu) window() {
	for !c.primask && !c.active {
		irq, ok := c.next()
		if !ok {
			return
		}
		c.pending[irq].Add(-1)
		c.enter()
		c.vectors[irq].handler()
		c.exit()
	}
}

// enter switches to handler mode.
func (c *cpu) enter() {
	c.active = true
	c.primask = true
}

// exit is the exception return: back to thread mode with interrupts
// enabled.
func (c *cpu) exit() {
	c.active = false
	c.primask = false
}

// waitForInterrupt parks until a vector is pending, then services it. It
// returns false when halt is closed first.
func (c *cpu) waitForInterrupt(halt <-chan struct{}) bool {
	if _, ok := c.next(); !ok {
		select {
		case <-c.wake:
		case <-halt:
			return false
		}
	}
	c.window()
	return true
}
