package app

import (
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"

	"ember/hal"
	"ember/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorFaultBG = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorFaultFG = color.RGBA{A: 0xFF}
)

// faultReporter dumps a faulted thread to the HAL log and paints it on the
// screen. Once a fault is shown the monitor stops redrawing.
type faultReporter struct {
	h       hal.HAL
	faulted atomic.Bool
}

func (r *faultReporter) report(info kernel.FaultInfo) {
	r.faulted.Store(true)

	lines := faultLines(info)
	if l := r.h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	disp := r.h.Display()
	if disp == nil {
		return
	}
	r.paint(disp.Framebuffer(), lines)
}

func faultLines(info kernel.FaultInfo) []string {
	lines := []string{
		"Ember fault:",
		fmt.Sprintf("thread: %d (%s)", info.ThreadID, info.Name),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (r *faultReporter) paint(fb hal.Framebuffer, lines []string) {
	d := newFBDisplay(fb)
	if !d.usable() {
		return
	}
	fb.ClearRGB(colorFaultBG.R, colorFaultBG.G, colorFaultBG.B)

	font := &proggy.TinySZ8pt7b
	_, outbox := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outbox)
	if fontWidth <= 0 {
		_ = d.Display()
		return
	}
	cols := fb.Width() / int(fontWidth)
	maxY := int16(fb.Height())

	y := int16(0)
	for _, line := range lines {
		for _, chunk := range wrapRunes(strings.TrimSpace(line), cols) {
			if y+monitorFontHeight > maxY {
				_ = d.Display()
				return
			}
			tinyfont.WriteLine(d, font, 0, y+monitorFontOffset, chunk, colorFaultFG)
			y += monitorFontHeight
		}
	}
	_ = d.Display()
}
