//go:build rp2350

package audio

import (
	"device/rp"
	"runtime/volatile"
)

const (
	pwmSlices  = 12
	pwmWrapIRQ = rp.IRQ_PWM_IRQ_WRAP_0
)

func pwmBase() *volatile.Register32 { return &rp.PWM.CH0_CSR }
func pwmIntr() *volatile.Register32 { return &rp.PWM.INTR }
func pwmInte() *volatile.Register32 { return &rp.PWM.IRQ0_INTE }
