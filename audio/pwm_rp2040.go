//go:build rp2040

package audio

import (
	"device/rp"
	"runtime/volatile"
)

const (
	pwmSlices  = 8
	pwmWrapIRQ = rp.IRQ_PWM_IRQ_WRAP
)

func pwmBase() *volatile.Register32 { return &rp.PWM.CH0_CSR }
func pwmIntr() *volatile.Register32 { return &rp.PWM.INTR }
func pwmInte() *volatile.Register32 { return &rp.PWM.INTE }
