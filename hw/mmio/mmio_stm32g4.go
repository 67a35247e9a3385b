//go:build tinygo && stm32g4

package mmio

import (
	"device/arm"
	"runtime/volatile"
	"unsafe"
)

// Registers accesses the bus directly with volatile loads and stores.
type Registers struct{}

func (Registers) Load(addr uint32) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (Registers) Store(addr uint32, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), v)
}

// CPU is the Cortex-M4 core.
type CPU struct{}

func (CPU) DisableInterrupts() { arm.DisableInterrupts() }

// SystemReset requests a reset through AIRCR and never returns.
func (CPU) SystemReset() {
	arm.SystemReset()
	for {
	}
}

// Jump switches MSP to sp and branches to pc. Control never comes back.
func (CPU) Jump(sp, pc uint32) {
	arm.AsmFull(`
		msr msp, {sp}
		bx {pc}
	`, map[string]interface{}{
		"sp": sp,
		"pc": pc,
	})
	for {
	}
}
