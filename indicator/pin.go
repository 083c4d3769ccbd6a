//go:build tinygo

package indicator

import "machine"

// Pin is a light wired to a GPIO, such as machine.LED.
type Pin machine.Pin

// NewPin configures pin as an output and returns it as a light.
func NewPin(pin machine.Pin) Pin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return Pin(pin)
}

func (p Pin) Set(on bool) { machine.Pin(p).Set(on) }
