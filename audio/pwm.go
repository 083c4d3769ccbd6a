//go:build rp2040 || rp2350

package audio

import (
	"errors"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/tinygo-org/watermon/internal/hwreg"
)

const samplePriority = 0x40

var errPWMClaimed = errors.New("audio: PWM output already created")

// The engine fed by the PWM wrap interrupt. TinyGo requires interrupt
// handlers to be known at compile time, so the receiver is a package variable.
var (
	sampleEngine *Engine
	sampleOut    *PWMOutput
)

// PWMOutput drives a pin from one PWM slice. The slice wraps once per
// sample and its wrap interrupt clocks the engine.
type PWMOutput struct {
	hw      *pwmSliceHW
	slice   uint8
	channel uint8 // 0 for A, 1 for B.
}

// NewPWMOutput configures the PWM slice behind pin to wrap at cfg.SampleRate
// with cfg.PWMTicks ticks of duty resolution. The slice is left disabled.
func NewPWMOutput(pin machine.Pin, cfg Config) (*PWMOutput, error) {
	if sampleOut != nil {
		return nil, errPWMClaimed
	}
	whole, frac, err := PWMDivider(machine.CPUFrequency(), cfg)
	if err != nil {
		return nil, err
	}
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, err
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})

	p := &PWMOutput{
		hw:      pwmSlice(slice),
		slice:   slice,
		channel: uint8(pin) & 1,
	}
	p.hw.CSR.Set(0)
	p.hw.CTR.Set(0)
	p.hw.CC.Set(0)
	p.hw.TOP.Set(uint32(cfg.PWMTicks) - 1)
	p.hw.DIV.Set(uint32(whole)<<pwmDivIntPos | uint32(frac)<<pwmDivFracPos)
	sampleOut = p
	return p, nil
}

// Install routes the slice's wrap interrupt to e. Call once, after
// e.Open(p).
func (p *PWMOutput) Install(e *Engine) {
	mask := uint32(1) << p.slice
	sampleEngine = e
	pwmIntr().Set(mask)
	hwreg.SetBits(pwmInte(), mask)

	intr := interrupt.New(pwmWrapIRQ, handlePWMWrap)
	intr.SetPriority(samplePriority)
	intr.Enable()
}

// SetLevel sets the duty of the pin's channel. Levels at or above the
// configured tick count saturate.
func (p *PWMOutput) SetLevel(level uint8) {
	shift := 16 * p.channel
	p.hw.CC.ReplaceBits(uint32(level), 0xffff, shift)
}

// SetEnabled starts or stops the slice counter. Stopping drops the duty to
// zero first so the pin idles low.
func (p *PWMOutput) SetEnabled(enabled bool) {
	if !enabled {
		p.SetLevel(0)
	}
	p.hw.CSR.ReplaceBits(hwreg.BoolToBit(enabled), 1, pwmCSREnPos)
}

func handlePWMWrap(interrupt.Interrupt) {
	p := sampleOut
	pwmIntr().Set(1 << p.slice)
	if sampleEngine != nil {
		sampleEngine.HandleSample()
	}
}

const (
	pwmCSREnPos   = 0
	pwmDivFracPos = 0
	pwmDivIntPos  = 4
)

// Per-slice PWM registers.
type pwmSliceHW struct {
	CSR volatile.Register32 // 0x00
	DIV volatile.Register32 // 0x04
	CTR volatile.Register32 // 0x08
	CC  volatile.Register32 // 0x0C
	TOP volatile.Register32 // 0x10
}

func pwmSlice(slice uint8) *pwmSliceHW {
	if slice >= pwmSlices {
		panic("audio: invalid PWM slice")
	}
	// 20 bytes (5 registers) per slice
	const size = unsafe.Sizeof(pwmSliceHW{})
	ptr := uintptr(unsafe.Pointer(pwmBase())) + uintptr(slice)*size
	return (*pwmSliceHW)(unsafe.Pointer(ptr))
}
