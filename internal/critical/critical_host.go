//go:build !tinygo

package critical

import "sync"

var mu sync.Mutex

// State is returned by Enter and must be passed to Exit.
type State struct{}

// Enter begins a critical section.
func Enter() State {
	mu.Lock()
	return State{}
}

// Exit ends the critical section begun by Enter.
func Exit(State) { mu.Unlock() }
