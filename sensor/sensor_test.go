package sensor

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"
)

type fakeADC struct {
	readings []uint16
	reads    int
}

func (a *fakeADC) Get() uint16 {
	v := a.readings[a.reads%len(a.readings)]
	a.reads++
	return v
}

func TestUpdateAverages(t *testing.T) {
	adc := &fakeADC{readings: []uint16{100, 200, 300, 400}}
	m := NewMonitor(adc, Config{Threshold: 0xffff, Oversample: 4})
	if err := m.Update(drivers.Voltage); err != nil {
		t.Fatal(err)
	}
	if m.Sample() != 250 {
		t.Errorf("sample got!=expected: %d != 250", m.Sample())
	}
	if adc.reads != 4 {
		t.Errorf("reads got!=expected: %d != 4", adc.reads)
	}
}

func TestUpdateNoOverflow(t *testing.T) {
	adc := &fakeADC{readings: []uint16{0xffff}}
	m := NewMonitor(adc, Config{Threshold: 0x8000, Oversample: 255})
	m.Update(drivers.AllMeasurements)
	if m.Sample() != 0xffff {
		t.Errorf("sample got!=expected: %#x != 0xffff", m.Sample())
	}
}

func TestUpdateUnsupported(t *testing.T) {
	adc := &fakeADC{readings: []uint16{0xffff}}
	m := NewMonitor(adc, DefaultConfig())
	err := m.Update(drivers.Temperature | drivers.Humidity)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err got!=expected: %v != %v", err, ErrUnsupported)
	}
	if adc.reads != 0 || m.Exceeded() {
		t.Error("unsupported measurement read the ADC")
	}
}

func TestHysteresis(t *testing.T) {
	cfg := Config{Threshold: 1000, Hysteresis: 100, Oversample: 1}
	adc := &fakeADC{readings: []uint16{0}}
	m := NewMonitor(adc, cfg)

	steps := []struct {
		reading  uint16
		exceeded bool
	}{
		{500, false},
		{999, false},
		{1000, true},
		{950, true},
		{900, true}, // 900+100 is not below the threshold.
		{1200, true},
		{899, false},
		{950, false},
		{1001, true},
	}
	for i, s := range steps {
		adc.readings[0] = s.reading
		m.Update(drivers.Voltage)
		if m.Exceeded() != s.exceeded {
			t.Errorf("step %d reading %d exceeded got!=expected: %v != %v",
				i, s.reading, m.Exceeded(), s.exceeded)
		}
	}
}

func TestZeroOversamplePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("did not panic")
		}
	}()
	NewMonitor(&fakeADC{}, Config{})
}
