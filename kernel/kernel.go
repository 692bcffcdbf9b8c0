package kernel

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	catrate "github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// Kernel is the whole kernel context: the CPU model, both control block
// rings with their backing arrays, the FIFOs and the tick counter.
type Kernel struct {
	_ [0]func() // prevent accidental copying.

	cpu *cpu
	log *logiface.Logger[logiface.Event]

	switchHook   func(Switch)
	faultHandler func(FaultInfo)
	overflow     *catrate.Limiter

	tcbs    [MaxThreads]tcb
	current int
	running *fiber
	// live counts alive threads, used is the high-water mark of slots.
	live int
	used int

	ptcbs    [MaxPeriodic]ptcb
	periodic int

	fifos [FIFOCount]fifo

	ticks    uint32
	switches uint64

	initialized bool
	launched    bool

	halting atomic.Bool
	halt    chan struct{}
	fibers  sync.WaitGroup
}

// New creates a kernel. Interrupts are masked until Launch.
func New(opts ...Option) *Kernel {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	k := &Kernel{
		cpu:          newCPU(),
		log:          o.logger,
		switchHook:   o.switchHook,
		faultHandler: o.faultHandler,
		halt:         make(chan struct{}),
	}
	if rates := o.overflowRate; len(rates) > 0 {
		if !validRates(rates) {
			k.log.Warning().
				Int("windows", len(rates)).
				Log("invalid fifo overflow log rate, using default")
			rates = defaultOptions().overflowRate
		}
		k.overflow = catrate.NewLimiter(rates)
	}
	k.cpu.setVector(IRQSysTick, k.sysTick, SysTickPriority)
	k.cpu.setVector(IRQPendSV, k.pendSV, PendSVPriority)
	return k
}

// Init resets the tick counter, both pools and every FIFO, then creates the
// idle thread. It must be called before Launch.
func (k *Kernel) Init(idle func()) error {
	st := k.EnterCritical()
	defer k.ExitCritical(st)

	if k.launched {
		return ErrAlreadyLaunched
	}

	k.ticks = 0
	k.tcbs = [MaxThreads]tcb{}
	k.ptcbs = [MaxPeriodic]ptcb{}
	k.fifos = [FIFOCount]fifo{}
	k.live, k.used, k.periodic = 0, 0, 0
	k.current = idleSlot

	k.addThread(idleLoop(k, idle), IdlePriority, "idle", IdleThreadID)
	k.initialized = true

	k.log.Info().
		Int("max_threads", MaxThreads).
		Int("max_periodic", MaxPeriodic).
		Int("fifos", FIFOCount).
		Log("kernel initialized")
	return nil
}

// idleLoop keeps the idle thread alive even if its entry returns.
func idleLoop(k *Kernel, idle func()) func() {
	return func() {
		if idle != nil {
			idle()
		}
		for {
			k.WaitForInterrupt()
		}
	}
}

// Launch starts SysTick and PendSV, switches to the first selected thread and
// blocks until ctx is done. It then halts every thread and returns ctx.Err().
func (k *Kernel) Launch(ctx context.Context) error {
	if !k.initialized {
		return ErrNotInitialized
	}
	if k.launched {
		return ErrAlreadyLaunched
	}
	k.launched = true

	c := k.cpu
	c.clear(IRQSysTick)
	c.clear(IRQPendSV)
	c.enable(IRQSysTick)
	c.enable(IRQPendSV)

	k.current = idleSlot
	k.schedule()
	first := k.tcbs[k.current].fiber

	k.log.Info().
		Int("threads", k.live).
		Int("periodic", k.periodic).
		Str("first", k.tcbs[k.current].name).
		Log("kernel launched")

	// The first thread starts exactly like a preempted one: from inside an
	// exception, via the restore path.
	c.enter()
	k.running = first
	k.restore(first)

	<-ctx.Done()
	k.stop()
	return ctx.Err()
}

// stop halts every fiber and waits for their goroutines to exit.
func (k *Kernel) stop() {
	if !k.halting.CompareAndSwap(false, true) {
		return
	}
	close(k.halt)
	k.cpu.pend(IRQPendSV)
	k.fibers.Wait()
	// Every fiber is gone: mask interrupts so later calls from outside
	// never open a window.
	k.cpu.primask = true
	k.log.Info().Log("kernel halted")
}

// Tick raises the SysTick interrupt. It is safe to call from any goroutine.
func (k *Kernel) Tick() { k.cpu.pend(IRQSysTick) }

// RaiseIRQ marks a peripheral interrupt pending. It is safe to call from any
// goroutine; dispatch happens at the next interrupt window.
func (k *Kernel) RaiseIRQ(irq IRQ) {
	if irq < 0 || int(irq) >= numVectors {
		return
	}
	k.cpu.pend(irq)
}

// StartTick raises SysTick every interval until ctx is done.
func (k *Kernel) StartTick(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				k.Tick()
			}
		}
	}()
}

// WaitForInterrupt parks the running thread until an interrupt is pending
// and services it.
func (k *Kernel) WaitForInterrupt() {
	if !k.cpu.waitForInterrupt(k.halt) {
		k.exitFiber()
	}
}

// Ticks returns the system tick counter.
func (k *Kernel) Ticks() uint32 {
	st := k.EnterCritical()
	defer k.ExitCritical(st)
	return k.ticks
}

// Switches returns the number of context switches since launch.
func (k *Kernel) Switches() uint64 {
	st := k.EnterCritical()
	defer k.ExitCritical(st)
	return k.switches
}

// CurrentThread returns the id of the running thread.
func (k *Kernel) CurrentThread() ThreadID {
	st := k.EnterCritical()
	defer k.ExitCritical(st)
	return k.tcbs[k.current].id
}
