//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"ember/app"
	"ember/hal"
)

func main() {
	var (
		cfg      hal.HeadlessConfig
		tickMS   int
		buttonMS int
		level    string
		appCfg   = app.DefaultConfig()
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Runner loop rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N kernel ticks in headless mode (0 = run forever).")
	flag.IntVar(&tickMS, "tick-ms", 1, "Wall time of one kernel tick in headless mode, in milliseconds.")
	flag.IntVar(&buttonMS, "button-ms", 0, "Press the simulated button every N ms in headless mode (0 = 2s, -1 = never).")
	flag.StringVar(&level, "log-level", "info", "Log level (trace, debug, info, notice, warning, err, crit).")
	flag.BoolVar(&appCfg.Monitor, "monitor", appCfg.Monitor, "Draw the thread monitor on the display.")
	flag.BoolVar(&appCfg.TraceSwitches, "trace", false, "Log every context switch (needs -log-level=trace).")
	flag.Parse()

	lvl, err := app.ParseLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	appCfg.LogLevel = lvl
	cfg.TickDuration = time.Duration(tickMS) * time.Millisecond
	appCfg.TickInterval = cfg.TickDuration
	switch {
	case buttonMS < 0:
		cfg.ButtonPeriod = -1
	case buttonMS > 0:
		cfg.ButtonPeriod = time.Duration(buttonMS) * time.Millisecond
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sys *app.System
	newApp := func(h hal.HAL) func() error {
		s, err := app.New(ctx, h, appCfg)
		if err != nil {
			return func() error { return err }
		}
		sys = s
		return s.Step
	}

	if cfg.Enabled {
		err = hal.RunHeadless(ctx, newApp, cfg)
	} else {
		err = hal.RunWindow(newApp)
	}
	if sys != nil {
		if cerr := sys.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
