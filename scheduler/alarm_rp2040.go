//go:build rp2040

package scheduler

import "device/rp"

const (
	rp2350ExtraReg = 0

	timerIRQ = rp.IRQ_TIMER_IRQ_1
)

var timerBase = rp.TIMER
