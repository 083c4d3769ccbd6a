// Package app is the water monitor's main loop. It owns no hardware: the
// firmware wires the event register, scheduler, audio engine, probe and
// status light together and hands them over in Deps.
//
// The loop reacts to five events:
//
//   - WaterSample: read the probe. A reading over the threshold raises the
//     alarm once per episode: the light turns to its alert state and the
//     siren plays until SirenDone fires. The alarm clears when the reading
//     falls back below the release level.
//   - SirenDone: stop the siren.
//   - LEDToggle: blink the status light.
//   - Tone: play the periodic failure chime, unless alarmed.
//   - AudioDone: a chime finished.
package app

import (
	"time"

	"github.com/tinygo-org/watermon/audio"
	"github.com/tinygo-org/watermon/events"
	"github.com/tinygo-org/watermon/indicator"
	"github.com/tinygo-org/watermon/scheduler"
	"tinygo.org/x/drivers"
)

const debug = false

const (
	badDeps   = "app: missing dependency"
	badConfig = "app: periods must be non-zero"
)

// Config holds the loop's cadence.
type Config struct {
	// SamplePeriod is the time between probe readings.
	SamplePeriod time.Duration
	// BlinkPeriod is the time between status light toggles.
	BlinkPeriod time.Duration
	// ToneEvery is the number of blink periods between tones.
	ToneEvery uint32
	// SirenDuration is how long the siren sounds when the alarm is raised.
	SirenDuration time.Duration
}

// DefaultConfig returns the cadence of the reference device.
func DefaultConfig() Config {
	return Config{
		SamplePeriod:  time.Second,
		BlinkPeriod:   500 * time.Millisecond,
		ToneEvery:     4,
		SirenDuration: 10 * time.Second,
	}
}

// Probe is the water sensor.
type Probe interface {
	drivers.Sensor
	Sample() uint16
	Exceeded() bool
}

// Deps are the components the loop drives. Scheduler and Audio must be
// open, and Audio must notify AudioDone on Events.
type Deps struct {
	Events    *events.Register
	Scheduler *scheduler.Scheduler
	Audio     *audio.Engine
	Probe     Probe
	Light     *indicator.Blinker
}

// Loop dispatches pending events to their handlers.
type Loop struct {
	cfg     Config
	deps    Deps
	alarmed bool
}

// New returns a loop over deps. It panics if a dependency is missing or a
// period is zero.
func New(cfg Config, deps Deps) *Loop {
	if deps.Events == nil || deps.Scheduler == nil || deps.Audio == nil || deps.Probe == nil || deps.Light == nil {
		panic(badDeps)
	}
	if cfg.SamplePeriod <= 0 || cfg.BlinkPeriod <= 0 || cfg.SirenDuration <= 0 || cfg.ToneEvery == 0 {
		panic(badConfig)
	}
	return &Loop{cfg: cfg, deps: deps}
}

// Start plays the boot chime and starts the periodic channels.
func (l *Loop) Start() {
	s := l.deps.Scheduler
	sc := s.Config()
	l.deps.Audio.Play(audio.SuccessChime)
	s.Enable(events.WaterSample, sc.Ticks(l.cfg.SamplePeriod), scheduler.Repeat)
	s.Enable(events.LEDToggle, sc.Ticks(l.cfg.BlinkPeriod), scheduler.Repeat)
	s.Enable(events.Tone, sc.Ticks(l.cfg.BlinkPeriod*time.Duration(l.cfg.ToneEvery)), scheduler.Repeat)
	if debug {
		println("app: started")
	}
}

// Alarmed reports whether the probe is in an alarm episode.
func (l *Loop) Alarmed() bool { return l.alarmed }

// Poll takes every pending event and handles them in bit order. It returns
// the events handled.
func (l *Loop) Poll() events.Kind {
	pending := l.deps.Events.Take(^events.None)
	if pending == events.None {
		return events.None
	}
	if debug {
		println("app: events", pending.String())
	}
	if pending.Has(events.WaterSample) {
		l.sampleWater()
	}
	if pending.Has(events.SirenDone) && l.alarmed {
		l.deps.Audio.Stop()
		if debug {
			println("audio: stop")
		}
	}
	if pending.Has(events.LEDToggle) {
		l.deps.Light.Toggle()
	}
	if pending.Has(events.Tone) && !l.alarmed {
		l.play(audio.FailureChime)
	}
	if pending.Has(events.AudioDone) && debug {
		println("audio: done", l.deps.Audio.Current().String())
	}
	return pending
}

// Run polls forever, calling idle whenever no event was pending. On the
// device idle waits for an interrupt.
func (l *Loop) Run(idle func()) {
	for {
		if l.Poll() == events.None {
			idle()
		}
	}
}

func (l *Loop) sampleWater() {
	probe := l.deps.Probe
	if err := probe.Update(drivers.Voltage); err != nil {
		println("app: probe:", err.Error())
		return
	}
	if debug {
		println("app: water", probe.Sample())
	}
	exceeded := probe.Exceeded()
	switch {
	case exceeded && !l.alarmed:
		l.alarmed = true
		l.deps.Light.SetAlert(true)
		l.deps.Audio.Stop()
		l.play(audio.Siren)
		s := l.deps.Scheduler
		s.Enable(events.SirenDone, s.Config().Ticks(l.cfg.SirenDuration), scheduler.Once)
		println("app: water over threshold:", probe.Sample())

	case !exceeded && l.alarmed:
		l.alarmed = false
		l.deps.Light.SetAlert(false)
		l.deps.Scheduler.Disable(events.SirenDone)
		// The channel may have fired after Poll took the pending bits.
		l.deps.Events.Clear(events.SirenDone)
		l.deps.Audio.Stop()
		println("app: water back below threshold:", probe.Sample())
	}
}

func (l *Loop) play(t audio.Type) {
	ok := l.deps.Audio.Play(t)
	if debug {
		println("audio: play", uint8(t), ok)
	}
}
