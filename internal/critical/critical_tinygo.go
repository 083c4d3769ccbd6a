//go:build tinygo

package critical

import "runtime/interrupt"

// State holds the interrupt mask to restore when the section ends.
type State = interrupt.State

// Enter masks interrupts and returns the previous mask.
//
//go:inline
func Enter() State { return interrupt.Disable() }

// Exit restores the interrupt mask saved by Enter.
//
//go:inline
func Exit(state State) { interrupt.Restore(state) }
