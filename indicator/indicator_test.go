package indicator

import "testing"

type fakeLight struct {
	states []bool
}

func (l *fakeLight) Set(on bool) { l.states = append(l.states, on) }

type fakeAlertLight struct {
	fakeLight
	alerts []bool
}

func (l *fakeAlertLight) SetAlert(alert bool) { l.alerts = append(l.alerts, alert) }

func TestBlinkerToggle(t *testing.T) {
	l := &fakeLight{}
	b := NewBlinker(l)
	if !b.On() {
		t.Error("new blinker is off")
	}
	b.Toggle()
	b.Toggle()
	b.Toggle()
	want := []bool{true, false, true, false}
	if len(l.states) != len(want) {
		t.Fatalf("writes got!=expected: %v != %v", l.states, want)
	}
	for i := range want {
		if l.states[i] != want[i] {
			t.Errorf("write %d got!=expected: %v != %v", i, l.states[i], want[i])
		}
	}
	if b.On() {
		t.Error("blinker on after odd number of toggles")
	}
}

func TestBlinkerAlertPlainLight(t *testing.T) {
	l := &fakeLight{}
	b := NewBlinker(l)
	b.SetAlert(true)
	if !b.Alert() {
		t.Error("alert not recorded")
	}
	if len(l.states) != 1 {
		t.Errorf("SetAlert wrote a plain light: %v", l.states)
	}
}

func TestBlinkerAlertForwarded(t *testing.T) {
	l := &fakeAlertLight{}
	b := NewBlinker(l)
	b.SetAlert(true)
	b.SetAlert(true) // Unchanged state is not forwarded.
	b.Toggle()
	b.SetAlert(false)
	if len(l.alerts) != 2 || !l.alerts[0] || l.alerts[1] {
		t.Errorf("alerts got!=expected: %v != [true false]", l.alerts)
	}
	if len(l.states) != 2 {
		t.Errorf("light writes got!=expected: %d != 2", len(l.states))
	}
}
