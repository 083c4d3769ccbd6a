//go:build rp2350

package scheduler

import "device/rp"

const (
	rp2350ExtraReg = 1

	timerIRQ = rp.IRQ_TIMER0_IRQ_1
)

var timerBase = rp.TIMER0
