//go:build rp2040 || rp2350

package scheduler

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/tinygo-org/watermon/internal/hwreg"
)

// Alarm 0 drives the TinyGo runtime's sleep, so the scheduler takes alarm 1.
const (
	alarmIndex = 1
	alarmMask  = 1 << alarmIndex

	alarmPriority = 0x80
)

// The scheduler that receives alarm interrupts. TinyGo requires interrupt
// handlers to be known at compile time, so the receiver is a package variable.
var alarmScheduler *Scheduler

// HardwareAlarm drives the scheduler from the RP2 system timer. The counter
// is the low word of the free-running microsecond timer.
type HardwareAlarm struct {
	hw *timerHW
}

// NewHardwareAlarm claims system timer alarm 1 for s and installs its
// interrupt handler. The alarm stays disarmed until the scheduler arms it.
// Only one HardwareAlarm may exist.
func NewHardwareAlarm(s *Scheduler) *HardwareAlarm {
	hw := timer()
	hw.ARMED.Set(alarmMask)
	hw.INTR.Set(alarmMask)
	hwreg.ClearBits(&hw.INTF, alarmMask)
	alarmScheduler = s
	hwreg.SetBits(&hw.INTE, alarmMask)

	intr := interrupt.New(timerIRQ, handleTimerInterrupt)
	intr.SetPriority(alarmPriority)
	intr.Enable()
	return &HardwareAlarm{hw: hw}
}

// Now returns the low 32 bits of the microsecond timer.
func (a *HardwareAlarm) Now() uint32 {
	return a.hw.TIMERAWL.Get()
}

// Arm programs the alarm compare register. The compare only matches on
// equality, so a deadline that has already slipped by forces the interrupt.
func (a *HardwareAlarm) Arm(deadline uint32) {
	a.hw.ALARM[alarmIndex].Set(deadline)
	if reached(deadline, a.hw.TIMERAWL.Get()) {
		hwreg.SetBits(&a.hw.INTF, alarmMask)
	}
}

// Disarm cancels the pending alarm.
func (a *HardwareAlarm) Disarm() {
	a.hw.ARMED.Set(alarmMask)
	hwreg.ClearBits(&a.hw.INTF, alarmMask)
}

func handleTimerInterrupt(interrupt.Interrupt) {
	hw := timer()
	hwreg.ClearBits(&hw.INTF, alarmMask)
	hw.INTR.Set(alarmMask)
	if alarmScheduler != nil {
		alarmScheduler.HandleAlarm()
	}
}

// System timer registers.
type timerHW struct {
	TIMEHW   volatile.Register32                 // 0x00
	TIMELW   volatile.Register32                 // 0x04
	TIMEHR   volatile.Register32                 // 0x08
	TIMELR   volatile.Register32                 // 0x0C
	ALARM    [4]volatile.Register32              // 0x10..0x1C
	ARMED    volatile.Register32                 // 0x20
	TIMERAWH volatile.Register32                 // 0x24
	TIMERAWL volatile.Register32                 // 0x28
	DBGPAUSE volatile.Register32                 // 0x2C
	PAUSE    volatile.Register32                 // 0x30
	LOCKED   [rp2350ExtraReg]volatile.Register32 // ----- | 0x34
	SOURCE   [rp2350ExtraReg]volatile.Register32 // ----- | 0x38
	INTR     volatile.Register32                 // 0x34 | 0x3C
	INTE     volatile.Register32                 // 0x38 | 0x40
	INTF     volatile.Register32                 // 0x3C | 0x44
	INTS     volatile.Register32                 // 0x40 | 0x48
}

func timer() *timerHW { return (*timerHW)(unsafe.Pointer(timerBase)) }
