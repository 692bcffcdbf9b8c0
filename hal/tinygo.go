//go:build tinygo && baremetal

package hal

import "machine"

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   *pinSet
	fb     Framebuffer
	t      *tinyGoTime
}

// New returns a Pico 2 (RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. Button: GP15 to ground,
// internal pull-up.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	btn := machine.GP15
	btn.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    led,
		gpio:   newPinSet(newLEDPin(PinLED, led), &machineInput{name: PinButton, pin: btn, activeLow: true}),
		fb:     nullFramebuffer{},
		t:      newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Display() Display { return display{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return input{kbd: nullKeyboard{}} }
func (h *tinyGoHAL) Time() Time       { return h.t }
