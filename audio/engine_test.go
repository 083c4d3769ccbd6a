package audio

import (
	"sync"
	"testing"

	"github.com/tinygo-org/watermon/events"
)

type fakeOutput struct {
	levels  []uint8
	enabled bool
	toggles int
}

func (o *fakeOutput) SetLevel(level uint8) { o.levels = append(o.levels, level) }

func (o *fakeOutput) SetEnabled(enabled bool) {
	if enabled != o.enabled {
		o.toggles++
	}
	o.enabled = enabled
}

// smallConfig keeps pattern lengths short: a 1 kHz sample rate gives a
// 500 sample success chime and a 1000 sample siren.
func smallConfig() Config {
	return Config{SampleRate: 1000, PWMTicks: 250, LowAmplitude: 3, HighAmplitude: 7}
}

func newTestEngine(cfg Config) (*Engine, *fakeOutput) {
	out := &fakeOutput{}
	e := NewEngine(cfg)
	e.Open(out)
	out.levels = nil
	return e, out
}

func TestPlayRunsToCompletion(t *testing.T) {
	cfg := smallConfig()
	e, out := newTestEngine(cfg)
	if !e.Play(SuccessChime) {
		t.Fatal("Play on idle engine returned false")
	}
	if !out.enabled {
		t.Error("output not enabled by Play")
	}
	loop := cfg.Descriptor(SuccessChime).LoopLength
	for i := uint32(0); i < loop; i++ {
		if !e.IsPlaying() {
			t.Fatalf("stopped early after %d samples", i)
		}
		e.HandleSample()
	}
	if e.IsPlaying() {
		t.Error("still playing after loop length")
	}
	if out.enabled {
		t.Error("output left enabled")
	}
	if uint32(len(out.levels)) != loop {
		t.Fatalf("samples got!=expected: %d != %d", len(out.levels), loop)
	}
	for i, l := range out.levels {
		if want := cfg.Sample(SuccessChime, uint32(i)); l != want {
			t.Fatalf("sample %d got!=expected: %d != %d", i, l, want)
		}
	}

	// Idle interrupts write nothing.
	for i := 0; i < 10; i++ {
		e.HandleSample()
	}
	if uint32(len(out.levels)) != loop {
		t.Errorf("idle engine wrote %d samples", uint32(len(out.levels))-loop)
	}
}

func TestAutoLoopWraps(t *testing.T) {
	cfg := smallConfig()
	e, out := newTestEngine(cfg)
	e.Play(Siren)
	loop := cfg.Descriptor(Siren).LoopLength
	for pass := 0; pass < 3; pass++ {
		for i := uint32(0); i < loop; i++ {
			e.HandleSample()
		}
		if e.Index() != 0 {
			t.Errorf("pass %d index got!=expected: %d != 0", pass, e.Index())
		}
		if !e.IsPlaying() {
			t.Fatalf("siren stopped after pass %d", pass)
		}
	}
	for i, l := range out.levels {
		if want := cfg.Sample(Siren, uint32(i)%loop); l != want {
			t.Fatalf("sample %d got!=expected: %d != %d", i, l, want)
		}
	}
}

func TestAtMostOnePlayback(t *testing.T) {
	e, _ := newTestEngine(smallConfig())
	if !e.Play(Siren) {
		t.Fatal("first Play returned false")
	}
	e.HandleSample()
	e.HandleSample()
	if e.Play(SuccessChime) {
		t.Error("second Play accepted while playing")
	}
	if e.Current() != Siren {
		t.Errorf("current got!=expected: %v != %v", e.Current(), Siren)
	}
	if e.Index() != 2 {
		t.Errorf("rejected Play reset the index to %d", e.Index())
	}
}

func TestStop(t *testing.T) {
	e, out := newTestEngine(smallConfig())
	e.Stop() // Stopping an idle engine is a no-op.
	if out.toggles != 0 {
		t.Error("Stop on idle engine touched the output")
	}

	e.Play(Siren)
	e.HandleSample()
	e.Stop()
	if e.IsPlaying() || out.enabled {
		t.Error("Stop left the engine playing")
	}
	n := len(out.levels)
	e.HandleSample()
	if len(out.levels) != n {
		t.Error("sample written after Stop")
	}

	if !e.Play(FailureChime) {
		t.Fatal("Play after Stop returned false")
	}
	if e.Index() != 0 {
		t.Errorf("index after restart got!=expected: %d != 0", e.Index())
	}
}

func TestNotifyDone(t *testing.T) {
	cfg := smallConfig()
	var reg events.Register
	e, _ := newTestEngine(cfg)
	e.NotifyDone(&reg, events.AudioDone)

	// Stopped patterns do not notify.
	e.Play(SuccessChime)
	e.HandleSample()
	e.Stop()
	if reg.Pending() {
		t.Errorf("stopped pattern notified: %v", reg.Get())
	}

	e.Play(FailureChime)
	for i := uint32(0); i < cfg.Descriptor(FailureChime).LoopLength; i++ {
		e.HandleSample()
	}
	if got := reg.Take(events.AudioDone); got != events.AudioDone {
		t.Errorf("done event got!=expected: %v != %v", got, events.AudioDone)
	}

	// A looping pattern never finishes on its own.
	e.Play(Siren)
	for i := uint32(0); i < 3*cfg.Descriptor(Siren).LoopLength; i++ {
		e.HandleSample()
	}
	if reg.Pending() {
		t.Error("siren notified done")
	}
}

func TestEngineNotOpen(t *testing.T) {
	e := NewEngine(smallConfig())
	e.HandleSample() // Harmless before Open.
	defer func() {
		if recover() == nil {
			t.Error("Play before Open did not panic")
		}
	}()
	e.Play(SuccessChime)
}

// The main loop and the sample interrupt race on Play, Stop and
// HandleSample. Every finished pattern must leave the output disabled.
func TestEngineConcurrent(t *testing.T) {
	cfg := smallConfig()
	e, out := newTestEngine(cfg)
	var reg events.Register
	e.NotifyDone(&reg, events.AudioDone)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				e.HandleSample()
			}
		}
	}()
	for i := 0; i < 200; i++ {
		e.Play(Type(i % int(NumTypes)))
		if i%3 == 0 {
			e.Stop()
		}
	}
	e.Stop()
	close(stop)
	wg.Wait()

	if e.IsPlaying() {
		t.Error("engine playing after final Stop")
	}
	if out.enabled {
		t.Error("output enabled after final Stop")
	}
}
