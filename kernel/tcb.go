package kernel

const (
	MaxThreads    = 16
	MaxPeriodic   = 8
	MaxNameLength = 8

	// IdleThreadID is reserved for the idle thread.
	IdleThreadID ThreadID = 0xFFFF
	// IdlePriority is the lowest priority; smaller values win.
	IdlePriority uint8 = 255

	idleSlot = 0
	noSlot   = -1
)

// ThreadID is the application-assigned identity of a thread.
type ThreadID uint16

// PeriodicID is the application-assigned identity of a periodic task.
type PeriodicID uint16

// thumbBit is the xPSR value for normal thread execution.
const thumbBit uint32 = 0x01000000

// trapFrame is the register image the restore path pops when a thread is
// switched in. A new thread gets a frame that looks as if it had been
// preempted right before its first instruction.
type trapFrame struct {
	pc   func()
	xpsr uint32
}

func initialFrame(entry func()) trapFrame {
	return trapFrame{pc: entry, xpsr: thumbBit}
}

// fiber carries one thread incarnation on the host: a goroutine that only
// runs while it holds the CPU. It is started lazily by the first restore.
type fiber struct {
	// resume hands the CPU over (true) or tells the goroutine to exit
	// (false).
	resume  chan bool
	frame   trapFrame
	started bool
	dead    bool
	slot    int
}

func newFiber(slot int, entry func()) *fiber {
	return &fiber{
		resume: make(chan bool, 1),
		frame:  initialFrame(entry),
		slot:   slot,
	}
}

// tcb is a thread control block. next and prev are arena indices.
type tcb struct {
	fiber *fiber
	entry func()

	next int
	prev int

	blockedOn *Semaphore
	wakeTick  uint32
	asleep    bool

	priority uint8
	alive    bool
	id       ThreadID
	name     string
}

// ptcb is a periodic task control block.
type ptcb struct {
	entry    func()
	period   uint32
	nextExec uint32
	id       PeriodicID

	next int
	prev int
}

func truncateName(name string) string {
	if len(name) > MaxNameLength {
		return name[:MaxNameLength]
	}
	return name
}

// insertAfter links slot n into the thread ring right after slot at.
func (k *Kernel) insertAfter(at, n int) {
	t := &k.tcbs[n]
	a := &k.tcbs[at]
	t.next = a.next
	t.prev = at
	k.tcbs[a.next].prev = n
	a.next = n
}

// unlink splices slot n out of the thread ring. Its own links are left
// pointing at its old neighbours.
func (k *Kernel) unlink(n int) {
	t := &k.tcbs[n]
	k.tcbs[t.prev].next = t.next
	k.tcbs[t.next].prev = t.prev
}

// valid reports whether slot n may be selected. An expired sleep is cleared
// on the way.
func (k *Kernel) valid(n int) bool {
	t := &k.tcbs[n]
	if t.blockedOn != nil || !t.alive {
		return false
	}
	if t.asleep {
		if t.wakeTick > k.ticks {
			return false
		}
		t.asleep = false
	}
	return true
}

// findThread walks the ring from the running thread looking for id. The
// running thread may already be dead, so the walk takes one extra step.
func (k *Kernel) findThread(id ThreadID) int {
	n := k.current
	for i := 0; i <= k.live; i++ {
		if k.tcbs[n].alive && k.tcbs[n].id == id {
			return n
		}
		n = k.tcbs[n].next
	}
	return noSlot
}

// freeSlot returns the slot a new thread goes into: the lowest dead slot
// above idle, or the next never-used slot.
func (k *Kernel) freeSlot() int {
	for i := idleSlot + 1; i < k.used; i++ {
		if !k.tcbs[i].alive {
			return i
		}
	}
	return k.used
}
