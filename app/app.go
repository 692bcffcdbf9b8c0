package app

import (
	"context"
	"errors"
	"time"

	"ember/hal"
	"ember/internal/buildinfo"
	"ember/kernel"

	"github.com/joeycumines/logiface"
	"golang.org/x/sync/errgroup"
)

// Config selects what the demo system runs.
type Config struct {
	// Monitor draws the thread table on the display.
	Monitor bool
	// LogLevel filters the JSON log written to the HAL logger.
	LogLevel logiface.Level
	// TraceSwitches logs every context switch at trace level.
	TraceSwitches bool
	// TickInterval drives SysTick from an internal ticker when the HAL has
	// no time source. Defaults to 1ms.
	TickInterval time.Duration
}

// DefaultConfig is used by the TinyGo entrypoint.
func DefaultConfig() Config {
	return Config{
		Monitor:  true,
		LogLevel: logiface.LevelInformational,
	}
}

// System is the kernel plus the demo workload, wired to a HAL.
type System struct {
	k      *kernel.Kernel
	h      hal.HAL
	log    *logiface.Logger[logiface.Event]
	demo   *demo
	faults *faultReporter

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New builds and launches the system. The kernel runs until ctx is done or
// Close is called.
func New(ctx context.Context, h hal.HAL, cfg Config) (*System, error) {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Millisecond
	}

	log := NewLogger(hal.NewLineWriter(h.Logger()), cfg.LogLevel)
	s := &System{
		h:      h,
		log:    log,
		faults: &faultReporter{h: h},
		done:   make(chan struct{}),
	}

	opts := []kernel.Option{
		kernel.WithLogger(log),
		kernel.WithFaultHandler(s.faults.report),
	}
	if cfg.TraceSwitches {
		opts = append(opts, kernel.WithSwitchHook(func(sw kernel.Switch) {
			log.Trace().
				Int("from", int(sw.From)).
				Int("to", int(sw.To)).
				Uint64("tick", uint64(sw.Tick)).
				Log("switch")
		}))
	}
	s.k = kernel.New(opts...)

	if err := s.k.Init(nil); err != nil {
		return nil, err
	}
	s.demo = newDemo(s.k, h, log)
	if err := s.demo.install(); err != nil {
		return nil, err
	}
	if cfg.Monitor {
		if err := s.installMonitor(); err != nil {
			log.Warning().Err(err).Log("monitor disabled")
		}
	}

	bi := buildinfo.Get()
	log.Info().
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Log("ember boot")

	ctx, s.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.k.Launch(gctx) })
	g.Go(func() error { return s.pump(gctx, cfg.TickInterval) })
	go func() {
		s.err = g.Wait()
		close(s.done)
	}()
	return s, nil
}

func (s *System) installMonitor() error {
	disp := s.h.Display()
	if disp == nil {
		return hal.ErrNotImplemented
	}
	m := newMonitor(s.k, disp.Framebuffer(), "ember "+buildinfo.Short())
	if !m.d.usable() {
		return hal.ErrNotImplemented
	}
	return s.k.AddThread(func() {
		for {
			if !s.faults.faulted.Load() {
				if err := m.render(); err != nil {
					s.log.Err().Err(err).Log("monitor: render failed")
					s.k.KillSelf()
				}
			}
			s.k.Sleep(monitorPeriod)
		}
	}, 4, "monitor", threadMonitor)
}

// pump is the interrupt controller side of the system: it raises SysTick
// for every HAL tick and routes button edges to ButtonIRQ.
func (s *System) pump(ctx context.Context, fallback time.Duration) error {
	var ticks <-chan uint64
	if t := s.h.Time(); t != nil {
		ticks = t.Ticks()
	}
	if ticks == nil {
		s.k.StartTick(ctx, fallback)
		<-ctx.Done()
		return ctx.Err()
	}

	var edge *hal.Edge
	if g := s.h.GPIO(); g != nil {
		if pin := g.Lookup(hal.PinButton); pin != nil && pin.Configure(hal.GPIOModeInput) == nil {
			edge = hal.NewEdge(pin)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				<-ctx.Done()
				return ctx.Err()
			}
			s.k.Tick()
			if edge.Rising() {
				s.k.RaiseIRQ(ButtonIRQ)
			}
		}
	}
}

// Kernel returns the running kernel. Once launched, only kernel threads and
// handlers may call into it.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Step reports a kernel failure without blocking. It is the per-frame hook
// of the HAL runners.
func (s *System) Step() error {
	select {
	case <-s.done:
		return s.result()
	default:
		return nil
	}
}

// Close halts the kernel and waits for it.
func (s *System) Close() error {
	s.cancel()
	<-s.done
	return s.result()
}

// Done is closed once the kernel has halted.
func (s *System) Done() <-chan struct{} { return s.done }

func (s *System) result() error {
	if errors.Is(s.err, context.Canceled) || errors.Is(s.err, context.DeadlineExceeded) {
		return nil
	}
	return s.err
}

// Run starts the system on h and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL, cfg Config) {
	s, err := New(context.Background(), h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("ember: " + err.Error())
		}
		select {}
	}
	<-s.Done()
	select {}
}
