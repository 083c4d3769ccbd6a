//go:build rp2040 || rp2350

package sensor

import "machine"

// NewADC initializes the ADC block and configures pin as an analog input.
// On the Pico the probe sits on GPIO26 (ADC0).
func NewADC(pin machine.Pin) machine.ADC {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return adc
}
