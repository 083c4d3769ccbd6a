// Package indicator drives the device's status light.
package indicator

// Light is an on/off status light.
type Light interface {
	Set(on bool)
}

// Alerter is implemented by lights that can show an alarm state, such as
// an RGB pixel that turns red.
type Alerter interface {
	SetAlert(alert bool)
}

// Blinker remembers the state of a light so it can be toggled.
type Blinker struct {
	light Light
	on    bool
	alert bool
}

// NewBlinker returns a blinker that turns light on.
func NewBlinker(light Light) *Blinker {
	b := &Blinker{light: light}
	b.Set(true)
	return b
}

// Toggle inverts the light.
func (b *Blinker) Toggle() { b.Set(!b.on) }

// Set turns the light on or off.
func (b *Blinker) Set(on bool) {
	b.on = on
	b.light.Set(on)
}

// On reports whether the light is on.
func (b *Blinker) On() bool { return b.on }

// SetAlert forwards the alarm state to the light if it can show one.
// Plain lights ignore it.
func (b *Blinker) SetAlert(alert bool) {
	if alert == b.alert {
		return
	}
	b.alert = alert
	if a, ok := b.light.(Alerter); ok {
		a.SetAlert(alert)
	}
}

// Alert reports whether the light is in its alert state.
func (b *Blinker) Alert() bool { return b.alert }
