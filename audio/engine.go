package audio

import (
	"sync/atomic"

	"github.com/tinygo-org/watermon/events"
	"github.com/tinygo-org/watermon/internal/critical"
)

const notOpen = "audio: engine not open"

// Output is the analog-approximating output stage written once per sample.
type Output interface {
	// SetLevel sets the output amplitude for the current sample.
	SetLevel(level uint8)
	// SetEnabled starts or stops the output stage. A disabled output holds
	// its pin at zero.
	SetEnabled(enabled bool)
}

// Engine plays one pattern at a time. Play and Stop are called from the main
// loop, HandleSample from the sample clock interrupt.
type Engine struct {
	cfg   Config
	descs [NumTypes]Descriptor
	out   Output

	playing atomic.Bool
	current Type
	index   uint32

	notify events.Signaler
	done   events.Kind
}

// NewEngine returns an idle engine for cfg.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	for t := Type(0); t < NumTypes; t++ {
		e.descs[t] = cfg.Descriptor(t)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Open attaches the output stage and silences it.
func (e *Engine) Open(out Output) {
	st := critical.Enter()
	e.out = out
	e.playing.Store(false)
	e.index = 0
	out.SetLevel(0)
	out.SetEnabled(false)
	critical.Exit(st)
}

// NotifyDone raises kind on sig whenever a non-looping pattern plays to its
// end. Patterns cut short by Stop do not notify.
func (e *Engine) NotifyDone(sig events.Signaler, kind events.Kind) {
	kind.Index() // Panic if kind is not a single event bit.
	st := critical.Enter()
	e.notify, e.done = sig, kind
	critical.Exit(st)
}

// Play starts pattern t from its first sample and enables the output. If a
// pattern is already playing the request is dropped and Play returns false.
func (e *Engine) Play(t Type) bool {
	t.mustValid()
	e.mustOpen()
	st := critical.Enter()
	if e.playing.Load() {
		critical.Exit(st)
		return false
	}
	e.current = t
	e.index = 0
	e.playing.Store(true)
	e.out.SetEnabled(true)
	critical.Exit(st)
	return true
}

// Stop silences the engine. No sample is written after Stop returns.
// Stopping an idle engine is a no-op.
func (e *Engine) Stop() {
	e.mustOpen()
	st := critical.Enter()
	if e.playing.Load() {
		e.playing.Store(false)
		e.out.SetEnabled(false)
	}
	critical.Exit(st)
}

// IsPlaying reports whether a pattern is playing.
func (e *Engine) IsPlaying() bool {
	return e.playing.Load()
}

// Current returns the pattern most recently started.
func (e *Engine) Current() Type {
	st := critical.Enter()
	t := e.current
	critical.Exit(st)
	return t
}

// Index returns the running sample index of the current pattern.
func (e *Engine) Index() uint32 {
	st := critical.Enter()
	i := e.index
	critical.Exit(st)
	return i
}

// HandleSample is the sample clock interrupt entry point. While a pattern
// plays it writes one sample and advances the index, wrapping looping
// patterns and finishing the others at their loop length.
func (e *Engine) HandleSample() {
	if !e.playing.Load() {
		return
	}
	st := critical.Enter()
	if !e.playing.Load() {
		critical.Exit(st)
		return
	}
	t := e.current
	e.out.SetLevel(e.cfg.Sample(t, e.index))
	e.index++

	finished := false
	if d := &e.descs[t]; e.index == d.LoopLength {
		if d.AutoLoop {
			e.index = 0
		} else {
			e.playing.Store(false)
			e.out.SetEnabled(false)
			finished = true
		}
	}
	notify, done := e.notify, e.done
	critical.Exit(st)

	if finished && notify != nil {
		notify.Set(done)
	}
}

func (e *Engine) mustOpen() {
	if e.out == nil {
		panic(notOpen)
	}
}
