//go:build !tinygo

// Command schedtrace runs a kernel with synthetic threads for a fixed number
// of ticks and prints every context switch as a JSON log line.
//
//	schedtrace -thread ping:2:5 -thread pong:2:5 -thread bg:4:0 -ticks 200
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"ember/app"
	"ember/kernel"
)

type threadSpec struct {
	name     string
	priority uint8
	sleep    uint32
}

// parseThread parses name:priority:sleep. A zero sleep makes the thread
// yield in a loop instead.
func parseThread(s string) (threadSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return threadSpec{}, fmt.Errorf("thread %q: want name:priority:sleep", s)
	}
	prio, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return threadSpec{}, fmt.Errorf("thread %q: priority: %w", s, err)
	}
	if prio >= uint64(kernel.IdlePriority) {
		return threadSpec{}, fmt.Errorf("thread %q: priority %d is reserved for idle", s, prio)
	}
	sleep, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return threadSpec{}, fmt.Errorf("thread %q: sleep: %w", s, err)
	}
	return threadSpec{name: parts[0], priority: uint8(prio), sleep: uint32(sleep)}, nil
}

type threadFlags []threadSpec

func (f *threadFlags) String() string {
	var b strings.Builder
	for i, t := range *f {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%d:%d", t.name, t.priority, t.sleep)
	}
	return b.String()
}

func (f *threadFlags) Set(s string) error {
	t, err := parseThread(s)
	if err != nil {
		return err
	}
	*f = append(*f, t)
	return nil
}

var defaultThreads = threadFlags{
	{name: "ping", priority: 2, sleep: 5},
	{name: "pong", priority: 2, sleep: 5},
	{name: "bg", priority: 4},
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, w io.Writer) error {
	var (
		threads threadFlags
		ticks   uint
		tickUS  uint
		level   string
	)
	fs := flag.NewFlagSet("schedtrace", flag.ContinueOnError)
	fs.Var(&threads, "thread", "Synthetic thread as name:priority:sleep (repeatable).")
	fs.UintVar(&ticks, "ticks", 100, "Number of ticks to run.")
	fs.UintVar(&tickUS, "tick-us", 100, "Wall time between ticks, in microseconds.")
	fs.StringVar(&level, "log-level", "notice", "Log level; switches and the summary log at notice.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if ticks == 0 || ticks > uint(^uint32(0)) {
		return fmt.Errorf("invalid -ticks %d", ticks)
	}
	if len(threads) == 0 {
		threads = defaultThreads
	}
	lvl, err := app.ParseLevel(level)
	if err != nil {
		return err
	}

	log := app.NewLogger(w, lvl)
	names := map[kernel.ThreadID]string{kernel.IdleThreadID: "idle"}
	runs := make(map[kernel.ThreadID]uint64)

	k := kernel.New(
		kernel.WithLogger(log),
		kernel.WithSwitchHook(func(sw kernel.Switch) {
			runs[sw.To]++
			log.Notice().
				Uint64("tick", uint64(sw.Tick)).
				Str("from", names[sw.From]).
				Str("to", names[sw.To]).
				Log("switch")
		}),
	)
	if err := k.Init(nil); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, t := range threads {
		id := kernel.ThreadID(i + 1)
		names[id] = t.name
		if err := k.AddThread(synthetic(k, t.sleep), t.priority, t.name, id); err != nil {
			return fmt.Errorf("add thread %s: %w", t.name, err)
		}
	}
	// The last tick ends the run from inside SysTick.
	if err := k.AddPeriodic(cancel, uint32(ticks), uint32(ticks), 1); err != nil {
		return err
	}

	go pump(ctx, k, time.Duration(tickUS)*time.Microsecond)
	if err := k.Launch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	ids := []kernel.ThreadID{kernel.IdleThreadID}
	for i := range threads {
		ids = append(ids, kernel.ThreadID(i+1))
	}
	for _, id := range ids {
		log.Notice().
			Str("thread", names[id]).
			Uint64("runs", runs[id]).
			Log("summary")
	}
	log.Notice().
		Uint64("ticks", uint64(ticks)).
		Uint64("switches", k.Switches()).
		Log("done")
	return nil
}

func synthetic(k *kernel.Kernel, sleep uint32) func() {
	return func() {
		for {
			if sleep == 0 {
				k.Yield()
			} else {
				k.Sleep(sleep)
			}
		}
	}
}

// pump raises SysTick until ctx is done. A zero interval ticks as fast as
// the kernel drains them.
func pump(ctx context.Context, k *kernel.Kernel, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		k.Tick()
		if interval > 0 {
			time.Sleep(interval)
		} else {
			runtime.Gosched()
		}
	}
}
