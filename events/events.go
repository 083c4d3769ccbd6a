// Package events implements the flag register used to hand work from
// interrupt handlers to the main loop.
//
// A Register is a single word of bits. Interrupt handlers Set bits, the main
// loop Takes them. Setting a bit that is already pending is a no-op: signals
// coalesce until the bit is taken, they are never counted or queued.
package events

import (
	"math/bits"
	"sync/atomic"
)

// Kind is a set of event bits. Single-bit values name one condition,
// values may be OR-ed together to form a mask.
type Kind uint32

// Event bits raised by the device.
const (
	WaterSample Kind = 1 << iota // Time to sample the water probe.
	SirenDone                    // Siren duration elapsed.
	LEDToggle                    // Blink the status indicator.
	Tone                         // Play the heartbeat tone.
	AudioDone                    // A non-looping audio pattern finished.
)

// NumKinds is the number of defined event bits.
const NumKinds = 5

// None is the empty set.
const None Kind = 0

const (
	allKinds = Kind(1<<NumKinds - 1)

	badEventKind = "events: invalid event kind"
)

var kindNames = [NumKinds]string{
	"water-sample",
	"siren-done",
	"led-toggle",
	"tone",
	"audio-done",
}

// Index returns the bit position of a single-bit Kind. It panics if k is
// empty, has more than one bit set or names an undefined bit.
func (k Kind) Index() uint8 {
	if k == 0 || k&(k-1) != 0 || k&^allKinds != 0 {
		panic(badEventKind)
	}
	return uint8(bits.TrailingZeros32(uint32(k)))
}

// Has reports whether every bit of mask is set in k.
func (k Kind) Has(mask Kind) bool { return k&mask == mask }

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	s := ""
	for k != 0 {
		bit := k & -k
		k &^= bit
		if s != "" {
			s += "|"
		}
		if bit&allKinds == 0 {
			s += "?"
			continue
		}
		s += kindNames[bits.TrailingZeros32(uint32(bit))]
	}
	return s
}

// Signaler is implemented by anything that accepts event bits. *Register
// is the canonical implementation; producers depend on Signaler so tests can
// count individual signals.
type Signaler interface {
	Set(k Kind)
}

// Register is a lock-free event flag register. The zero value is an empty
// register ready for use. A Register must not be copied after first use.
//
// Every read-modify-write is a compare-and-swap loop so that it is
// indivisible with respect to interrupt preemption. Cortex-M0+ has no
// exclusive load/store, TinyGo lowers the CAS with interrupts masked.
type Register struct {
	bits atomic.Uint32
}

// Set ORs k into the register. Safe to call from interrupt handlers.
func (r *Register) Set(k Kind) {
	for {
		old := r.bits.Load()
		if old|uint32(k) == old {
			return
		}
		if r.bits.CompareAndSwap(old, old|uint32(k)) {
			return
		}
	}
}

// Clear clears the bits of k from the register.
//
// Clear does not tell the caller whether the bits were set. A main loop that
// reads with Get and then clears may lose a signal raised in between; use
// Take instead.
func (r *Register) Clear(k Kind) {
	for {
		old := r.bits.Load()
		if old&^uint32(k) == old {
			return
		}
		if r.bits.CompareAndSwap(old, old&^uint32(k)) {
			return
		}
	}
}

// Get returns the pending bits without modifying the register.
func (r *Register) Get() Kind {
	return Kind(r.bits.Load())
}

// Take atomically clears the pending bits of mask and returns exactly the
// bits it cleared. A bit set after Take returns stays pending for the next
// call.
func (r *Register) Take(mask Kind) Kind {
	for {
		old := r.bits.Load()
		taken := old & uint32(mask)
		if taken == 0 {
			return None
		}
		if r.bits.CompareAndSwap(old, old&^taken) {
			return Kind(taken)
		}
	}
}

// Pending reports whether any bit is set.
func (r *Register) Pending() bool {
	return r.bits.Load() != 0
}
