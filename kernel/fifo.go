package kernel

const (
	FIFOCount    = 4
	FIFOCapacity = 16
)

// fifo is a bounded ring of int32 words. head and tail are free-running
// cursors; size counts stored words and blocks readers, mutex guards the
// cursors.
type fifo struct {
	buf  [FIFOCapacity]int32
	head uint32
	tail uint32
	lost uint32

	size  Semaphore
	mutex Semaphore

	initialized bool
}

// InitFIFO empties FIFO i and resets its loss counter.
func (k *Kernel) InitFIFO(i int) error {
	if i < 0 || i >= FIFOCount {
		return ErrFIFOIndex
	}

	st := k.EnterCritical()
	f := &k.fifos[i]
	f.head, f.tail, f.lost = 0, 0, 0
	f.initialized = true
	k.ExitCritical(st)

	k.InitSemaphore(&f.mutex, 1)
	k.InitSemaphore(&f.size, 0)
	return nil
}

func (k *Kernel) fifo(i int) (*fifo, error) {
	if i < 0 || i >= FIFOCount {
		return nil, ErrFIFOIndex
	}
	st := k.EnterCritical()
	defer k.ExitCritical(st)
	f := &k.fifos[i]
	if !f.initialized {
		return nil, ErrFIFONotInitialized
	}
	return f, nil
}

// ReadFIFO removes the oldest word from FIFO i, blocking while it is empty.
func (k *Kernel) ReadFIFO(i int) (int32, error) {
	f, err := k.fifo(i)
	if err != nil {
		return 0, err
	}

	k.Wait(&f.size)
	k.Wait(&f.mutex)
	v := f.buf[f.head%FIFOCapacity]
	f.head++
	k.Signal(&f.mutex)
	return v, nil
}

// WriteFIFO appends v to FIFO i. It never blocks on a full FIFO: the word
// is dropped, counted as lost, and ErrFIFOFull is returned. It may be called
// from periodic tasks.
func (k *Kernel) WriteFIFO(i int, v int32) error {
	f, err := k.fifo(i)
	if err != nil {
		return err
	}

	st := k.EnterCritical()
	if f.size.count > FIFOCapacity-1 {
		f.lost++
		lost := f.lost
		k.ExitCritical(st)
		k.warnOverflow(i, lost)
		return ErrFIFOFull
	}
	k.ExitCritical(st)

	k.Wait(&f.mutex)
	f.buf[f.tail%FIFOCapacity] = v
	f.tail++
	k.Signal(&f.size)
	k.Signal(&f.mutex)
	return nil
}

// FIFOEmpty reports whether FIFO i holds no words. Out of range and
// uninitialized FIFOs are empty.
func (k *Kernel) FIFOEmpty(i int) bool {
	f, err := k.fifo(i)
	if err != nil {
		return true
	}
	st := k.EnterCritical()
	defer k.ExitCritical(st)
	return f.size.count <= 0
}

// FIFOLost returns the number of words dropped by FIFO i since InitFIFO.
func (k *Kernel) FIFOLost(i int) uint32 {
	f, err := k.fifo(i)
	if err != nil {
		return 0
	}
	st := k.EnterCritical()
	defer k.ExitCritical(st)
	return f.lost
}

func (k *Kernel) warnOverflow(i int, lost uint32) {
	if k.overflow != nil {
		if _, ok := k.overflow.Allow(i); !ok {
			return
		}
	}
	k.log.Warning().
		Int("fifo", i).
		Uint64("lost", uint64(lost)).
		Log("fifo full")
}
