package app

import (
	"fmt"

	"ember/hal"
	"ember/kernel"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	monitorFontHeight = 10
	monitorFontOffset = 6
)

// monitor renders the kernel's thread table onto the framebuffer. It runs
// as a low priority kernel thread.
type monitor struct {
	k     *kernel.Kernel
	fb    hal.Framebuffer
	d     *fbDisplay
	title string

	threads []kernel.ThreadInfo
}

func newMonitor(k *kernel.Kernel, fb hal.Framebuffer, title string) *monitor {
	return &monitor{
		k:       k,
		fb:      fb,
		d:       newFBDisplay(fb),
		title:   title,
		threads: make([]kernel.ThreadInfo, 0, kernel.MaxThreads),
	}
}

// lines formats a snapshot of the kernel state.
func (m *monitor) lines() []string {
	m.threads = m.k.AppendThreads(m.threads[:0])

	out := make([]string, 0, len(m.threads)+4+kernel.FIFOCount)
	out = append(out,
		m.title,
		fmt.Sprintf("tick %d  switches %d", m.k.Ticks(), m.k.Switches()),
		"",
		fmt.Sprintf("%5s %-8s %3s %-7s %s", "ID", "NAME", "PRI", "STATE", "WAKE"),
	)
	for _, t := range m.threads {
		wake := ""
		if t.State == kernel.ThreadSleeping {
			wake = fmt.Sprint(t.WakeTick)
		}
		out = append(out, fmt.Sprintf("%5d %-8s %3d %-7s %s", t.ID, t.Name, t.Priority, t.State, wake))
	}
	out = append(out, "")
	for i := 0; i < kernel.FIFOCount; i++ {
		out = append(out, fmt.Sprintf("fifo%d empty=%t lost=%d", i, m.k.FIFOEmpty(i), m.k.FIFOLost(i)))
	}
	return out
}

// render redraws the whole screen.
func (m *monitor) render() error {
	if !m.d.usable() {
		return hal.ErrNotImplemented
	}
	lines := m.lines()

	m.fb.ClearRGB(0, 0, 0)
	t := tinyterm.NewTerminal(m.d)
	t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: monitorFontHeight,
		FontOffset: monitorFontOffset,
	})

	rows := m.fb.Height() / monitorFontHeight
	for i, line := range lines {
		if i >= rows-1 {
			break
		}
		fmt.Fprintf(t, "%s\r\n", line)
	}
	return m.d.Display()
}
