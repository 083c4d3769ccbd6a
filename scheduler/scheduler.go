// Package scheduler multiplexes a fixed set of countdown channels onto a
// single hardware alarm.
//
// There is one channel per event bit. When a channel expires the scheduler
// raises its bit and then either re-arms the channel (Repeat) or
// deactivates it (Once). The hardware alarm is always programmed for the
// nearest deadline among active channels.
package scheduler

import (
	"time"

	"github.com/tinygo-org/watermon/events"
	"github.com/tinygo-org/watermon/internal/critical"
)

// Mode selects what happens to a channel when it fires.
type Mode uint8

const (
	// Once deactivates the channel when it fires.
	Once Mode = iota
	// Repeat re-arms the channel one period after its previous deadline.
	Repeat
)

func (m Mode) String() string {
	switch m {
	case Once:
		return "once"
	case Repeat:
		return "repeat"
	}
	return "invalid"
}

const (
	badMode     = "scheduler: invalid mode"
	badPeriod   = "scheduler: period must be in [1, MaxPeriod]"
	notOpen     = "scheduler: not open"
	badTickRes  = "scheduler: zero tick rate"
	badDuration = "scheduler: duration negative or too long for a period"
)

// MaxPeriod is the longest channel period in ticks. Deadlines are compared
// with wrapping arithmetic, so a deadline must lie less than half the
// counter range ahead.
const MaxPeriod = 1<<31 - 1

// Alarm is a free-running 32-bit tick counter with one compare alarm.
// Tick arithmetic wraps.
type Alarm interface {
	// Now returns the current tick count.
	Now() uint32
	// Arm schedules the alarm interrupt for deadline, replacing any previous
	// deadline. If deadline is not in the future the interrupt must fire as
	// soon as possible.
	Arm(deadline uint32)
	// Disarm cancels a pending alarm.
	Disarm()
}

// Config holds the scheduler's clock configuration.
type Config struct {
	// TickHz is the rate the alarm counter advances at. Channel periods are
	// expressed in these ticks.
	TickHz uint32
}

// DefaultConfig returns the configuration for the RP2 system timer, which
// counts microseconds.
func DefaultConfig() Config {
	return Config{TickHz: 1_000_000}
}

// Ticks converts d to alarm ticks, truncating. It panics if d is negative
// or the result exceeds MaxPeriod.
func (cfg Config) Ticks(d time.Duration) uint32 {
	if cfg.TickHz == 0 {
		panic(badTickRes)
	}
	if d < 0 {
		panic(badDuration)
	}
	hz := uint64(cfg.TickHz)
	secs := uint64(d / time.Second)
	if secs > MaxPeriod/hz {
		panic(badDuration)
	}
	ticks := secs*hz + uint64(d%time.Second)*hz/uint64(time.Second)
	if ticks > MaxPeriod {
		panic(badDuration)
	}
	return uint32(ticks)
}

type channel struct {
	period   uint32
	deadline uint32
	mode     Mode
	active   bool
}

// Scheduler owns the channel table. Enable and Disable are called from the
// main loop, HandleAlarm from the alarm interrupt.
type Scheduler struct {
	cfg      Config
	sig      events.Signaler
	alarm    Alarm
	channels [events.NumKinds]channel
}

// New returns a scheduler that raises expired channels on sig. All
// channels start inactive.
func New(sig events.Signaler, cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg, sig: sig}
}

// Config returns the configuration the scheduler was created with.
func (s *Scheduler) Config() Config { return s.cfg }

// Open attaches the hardware alarm and leaves it disarmed. Calling Open
// again has no effect.
func (s *Scheduler) Open(alarm Alarm) {
	st := critical.Enter()
	if s.alarm == nil {
		s.alarm = alarm
		alarm.Disarm()
	}
	critical.Exit(st)
}

// Enable activates the channel for kind so that it first fires period ticks
// from now. An active channel is overwritten, its old deadline is dropped.
// kind must be a single event bit and period in [1, MaxPeriod].
func (s *Scheduler) Enable(kind events.Kind, period uint32, mode Mode) {
	idx := kind.Index()
	if period == 0 || period > MaxPeriod {
		panic(badPeriod)
	}
	if mode > Repeat {
		panic(badMode)
	}
	s.mustOpen()

	st := critical.Enter()
	now := s.alarm.Now()
	s.channels[idx] = channel{
		period:   period,
		deadline: now + period,
		mode:     mode,
		active:   true,
	}
	s.rearm(now)
	critical.Exit(st)
}

// Disable deactivates the channel for kind. A bit the channel already
// raised stays pending.
func (s *Scheduler) Disable(kind events.Kind) {
	idx := kind.Index()
	s.mustOpen()

	st := critical.Enter()
	if s.channels[idx].active {
		s.channels[idx].active = false
		s.rearm(s.alarm.Now())
	}
	critical.Exit(st)
}

// Active reports whether the channel for kind is armed.
func (s *Scheduler) Active(kind events.Kind) bool {
	idx := kind.Index()
	st := critical.Enter()
	active := s.channels[idx].active
	critical.Exit(st)
	return active
}

// Deadline returns the next deadline of the channel for kind and whether
// the channel is active.
func (s *Scheduler) Deadline(kind events.Kind) (deadline uint32, active bool) {
	idx := kind.Index()
	st := critical.Enter()
	ch := s.channels[idx]
	critical.Exit(st)
	return ch.deadline, ch.active
}

// HandleAlarm is the alarm interrupt entry point. Every active channel
// whose deadline has been reached fires exactly once: its bit is raised and
// a Repeat channel advances by exactly one period, even if that leaves it
// behind the clock. The alarm is then re-armed for the nearest deadline.
func (s *Scheduler) HandleAlarm() {
	if s.alarm == nil {
		return
	}
	st := critical.Enter()
	now := s.alarm.Now()
	for i := range s.channels {
		ch := &s.channels[i]
		if !ch.active || !reached(ch.deadline, now) {
			continue
		}
		if ch.mode == Repeat {
			ch.deadline += ch.period
		} else {
			ch.active = false
		}
		s.sig.Set(events.Kind(1) << i)
	}
	s.rearm(now)
	critical.Exit(st)
}

// rearm programs the alarm for the nearest active deadline. Must be called
// inside a critical section.
func (s *Scheduler) rearm(now uint32) {
	var (
		next  uint32
		until int32
		found bool
	)
	for i := range s.channels {
		ch := &s.channels[i]
		if !ch.active {
			continue
		}
		d := int32(ch.deadline - now)
		if !found || d < until {
			next, until, found = ch.deadline, d, true
		}
	}
	if !found {
		s.alarm.Disarm()
		return
	}
	s.alarm.Arm(next)
}

func (s *Scheduler) mustOpen() {
	if s.alarm == nil {
		panic(notOpen)
	}
}

// reached reports whether deadline is at or before now, allowing for
// counter wrap.
func reached(deadline, now uint32) bool {
	return int32(deadline-now) <= 0
}
