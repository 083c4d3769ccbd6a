//go:build rp2040 || rp2350

// Package hwreg provides atomic access to RP2 peripheral register bits.
//
// Registers have 'ALIAS' registers with special semantics, see
// 2.1.2. Atomic Register Access in the RP2040 Datasheet.
//
// Each peripheral register block is allocated 4kB of address space, with
// registers accessed using one of 4 methods, selected by address decode.
//   - Addr + 0x0000 : normal read write access
//   - Addr + 0x1000 : atomic XOR on write
//   - Addr + 0x2000 : atomic bitmask set on write
//   - Addr + 0x3000 : atomic bitmask clear on write
package hwreg

import (
	"runtime/volatile"
	"unsafe"
)

const (
	aliasSET = 0x2 << 12
	aliasCLR = 0x3 << 12
)

//go:inline
func alias(offset uintptr, reg *volatile.Register32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(unsafe.Pointer(reg)) | offset))
}

// SetBits sets bits in reg without touching the others.
func SetBits(reg *volatile.Register32, bits uint32) {
	alias(aliasSET, reg).Set(bits)
}

// ClearBits clears bits in reg without touching the others.
func ClearBits(reg *volatile.Register32, bits uint32) {
	alias(aliasCLR, reg).Set(bits)
}

// BoolToBit returns 1 for true and 0 for false.
func BoolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
