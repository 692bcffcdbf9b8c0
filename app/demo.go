package app

import (
	"ember/hal"
	"ember/kernel"

	"github.com/joeycumines/logiface"
)

// Thread ids of the demo.
const (
	threadWorker  kernel.ThreadID = 1
	threadBeat    kernel.ThreadID = 2
	threadReset   kernel.ThreadID = 3
	threadMonitor kernel.ThreadID = 4
)

// Periodic task ids of the demo.
const (
	periodicInput   kernel.PeriodicID = 1
	periodicGravity kernel.PeriodicID = 2
)

const (
	// ButtonIRQ is the peripheral vector the button edge is routed to.
	ButtonIRQ      kernel.IRQ = 20
	buttonPriority uint8      = 4

	inputFIFO = 0

	inputPeriod   = 10
	inputOffset   = 50
	gravityPeriod = 500
	beatPeriod    = 500
	monitorPeriod = 250
)

// Move codes written to the input FIFO.
const (
	moveNone int32 = iota
	moveLeft
	moveRight
	moveDown
	moveRotate
	moveDrop
)

// demo is the workload run on the kernel: a periodic input poller and a
// gravity timer feed a worker through FIFO 0; a heartbeat blinks the LED; a
// button interrupt wakes a reset thread that restarts the heartbeat.
type demo struct {
	k   *kernel.Kernel
	h   hal.HAL
	log *logiface.Logger[logiface.Event]

	// logMu serializes log lines written by worker threads.
	logMu   kernel.Semaphore
	buttons kernel.Semaphore

	keys <-chan hal.KeyEvent
	led  bool

	moves    [moveDrop + 1]uint32
	restarts uint32
}

func newDemo(k *kernel.Kernel, h hal.HAL, log *logiface.Logger[logiface.Event]) *demo {
	d := &demo{k: k, h: h, log: log}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			d.keys = kbd.Events()
		}
	}
	return d
}

// install registers every demo thread, task and interrupt. The kernel must
// be initialized and not yet launched.
func (d *demo) install() error {
	k := d.k
	k.InitSemaphore(&d.logMu, 1)
	k.InitSemaphore(&d.buttons, 0)
	if err := k.InitFIFO(inputFIFO); err != nil {
		return err
	}

	if err := k.AddThread(d.worker, 2, "worker", threadWorker); err != nil {
		return err
	}
	if err := k.AddThread(d.heartbeat, 3, "beat", threadBeat); err != nil {
		return err
	}
	if err := k.AddThread(d.reset, 1, "reset", threadReset); err != nil {
		return err
	}

	if err := k.AddPeriodic(d.pollInput, inputPeriod, inputOffset, periodicInput); err != nil {
		return err
	}
	if err := k.AddPeriodic(d.gravity, gravityPeriod, gravityPeriod, periodicGravity); err != nil {
		return err
	}

	return k.AddAperiodic(d.button, buttonPriority, ButtonIRQ)
}

// pollInput runs every inputPeriod ticks and turns pending key presses into
// moves.
func (d *demo) pollInput() {
	for {
		select {
		case ev, ok := <-d.keys:
			if !ok {
				d.keys = nil
				return
			}
			if m := moveFor(ev); m != moveNone {
				_ = d.k.WriteFIFO(inputFIFO, m)
			}
		default:
			return
		}
	}
}

func moveFor(ev hal.KeyEvent) int32 {
	if !ev.Press {
		return moveNone
	}
	switch ev.Code {
	case hal.KeyLeft:
		return moveLeft
	case hal.KeyRight:
		return moveRight
	case hal.KeyDown:
		return moveDown
	case hal.KeyUp:
		return moveRotate
	case hal.KeyEnter, hal.KeySpace:
		return moveDrop
	}
	switch ev.Rune {
	case 'a':
		return moveLeft
	case 'd':
		return moveRight
	case 's':
		return moveDown
	case 'w':
		return moveRotate
	case ' ':
		return moveDrop
	}
	return moveNone
}

// gravity pushes a down move on a fixed period, so the worker has input
// even without a keyboard.
func (d *demo) gravity() {
	_ = d.k.WriteFIFO(inputFIFO, moveDown)
}

func (d *demo) worker() {
	for {
		m, err := d.k.ReadFIFO(inputFIFO)
		if err != nil {
			d.log.Err().Err(err).Log("worker: read failed")
			d.k.KillSelf()
			return
		}
		if m < 0 || int(m) >= len(d.moves) {
			continue
		}
		d.moves[m]++

		d.k.Wait(&d.logMu)
		d.log.Info().
			Int("move", int(m)).
			Uint64("count", uint64(d.moves[m])).
			Uint64("tick", uint64(d.k.Ticks())).
			Log("input")
		d.k.Signal(&d.logMu)
	}
}

func (d *demo) heartbeat() {
	led := d.h.LED()
	for {
		d.led = !d.led
		if led != nil {
			if d.led {
				led.High()
			} else {
				led.Low()
			}
		}
		d.k.Sleep(beatPeriod)
	}
}

// button is the aperiodic handler for ButtonIRQ.
func (d *demo) button() {
	d.k.Signal(&d.buttons)
}

// reset restarts the heartbeat each time the button is pressed. The new
// heartbeat reuses the slot the old one freed.
func (d *demo) reset() {
	for {
		d.k.Wait(&d.buttons)

		d.k.Kill(threadBeat)
		d.restarts++
		err := d.k.AddThread(d.heartbeat, 3, "beat", threadBeat)

		d.k.Wait(&d.logMu)
		if err != nil {
			d.log.Err().Err(err).Log("reset: heartbeat restart failed")
		} else {
			d.log.Notice().
				Uint64("restarts", uint64(d.restarts)).
				Uint64("tick", uint64(d.k.Ticks())).
				Log("heartbeat restarted")
		}
		d.k.Signal(&d.logMu)
	}
}
