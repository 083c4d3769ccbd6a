// Package critical provides the critical section used to guard state shared
// between the main loop and interrupt handlers.
//
// On TinyGo targets a section masks interrupts; sections nest. The host
// build serializes sections with a mutex so that tests driving interrupt
// handlers from goroutines behave like the single-core device. Host
// sections must not nest.
package critical
