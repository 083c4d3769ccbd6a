// Package sensor reads the water probe and decides whether its level is
// over the alarm threshold.
package sensor

import (
	"errors"

	"tinygo.org/x/drivers"
)

// ErrUnsupported is returned by Update when asked for a measurement the
// probe cannot take.
var ErrUnsupported = errors.New("sensor: unsupported measurement")

const badOversample = "sensor: oversample must be non-zero"

// ADC is a single analog input returning readings scaled to 16 bits.
// machine.ADC satisfies it.
type ADC interface {
	Get() uint16
}

// Config holds the probe thresholds, in 16 bit ADC units.
type Config struct {
	// Threshold is the reading at or above which the probe is exceeded.
	Threshold uint16
	// Hysteresis is how far below Threshold a reading must fall to
	// clear an exceeded probe.
	Hysteresis uint16
	// Oversample is the number of conversions averaged per Update.
	Oversample uint8
}

// DefaultConfig returns a mid-scale threshold with a small release band.
func DefaultConfig() Config {
	return Config{
		Threshold:  0x8000,
		Hysteresis: 0x0800,
		Oversample: 4,
	}
}

// Monitor tracks one probe. It is a drivers.Sensor measuring
// drivers.Voltage.
type Monitor struct {
	adc      ADC
	cfg      Config
	sample   uint16
	exceeded bool
}

var _ drivers.Sensor = (*Monitor)(nil)

// NewMonitor returns a monitor reading adc. No conversion is made until
// the first Update.
func NewMonitor(adc ADC, cfg Config) *Monitor {
	if cfg.Oversample == 0 {
		panic(badOversample)
	}
	return &Monitor{adc: adc, cfg: cfg}
}

// Config returns the monitor configuration.
func (m *Monitor) Config() Config { return m.cfg }

// Update takes a new averaged reading and updates the exceeded state.
func (m *Monitor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return ErrUnsupported
	}
	var sum uint32
	for i := uint8(0); i < m.cfg.Oversample; i++ {
		sum += uint32(m.adc.Get())
	}
	m.sample = uint16(sum / uint32(m.cfg.Oversample))

	if m.sample >= m.cfg.Threshold {
		m.exceeded = true
	} else if m.exceeded && uint32(m.sample)+uint32(m.cfg.Hysteresis) < uint32(m.cfg.Threshold) {
		m.exceeded = false
	}
	return nil
}

// Sample returns the last averaged reading.
func (m *Monitor) Sample() uint16 { return m.sample }

// Exceeded reports whether the last reading put the probe over its
// threshold. Once exceeded it stays so until a reading falls below
// Threshold-Hysteresis.
func (m *Monitor) Exceeded() bool { return m.exceeded }
