// Package boot holds the power-on path: the bootloader handoff protocol and
// the startup sequence that runs before the scheduler.
//
// Two request paths lead into the ROM bootloader. Request leaves an 8-byte
// flag in RAM that the next boot's CheckPending honours by jumping into ROM.
// RequestHardware leaves a key in a backup register for bootloaders that
// read it themselves. Neither returns.
package boot

import (
	"g4boot/board"
	"g4boot/clock"
	"g4boot/hw"
	g4 "g4boot/hw/stm32g4"
)

const (
	// BootFlag is "USB BOOT" read as a big-endian string.
	BootFlag uint64 = 0x55534220424F4F54
	// BootKey is the HID bootloader key kept in TAMP_BKP4R.
	BootKey uint32 = 0x424C
	// ROMTable holds the system-memory bootloader's initial SP and entry.
	ROMTable = g4.SystemBase
)

// Handoff requests and performs transfers into a bootloader.
type Handoff struct {
	regs hw.Registers
	cpu  hw.CPU
	gate *clock.Gate
	mem  board.Memory
	coop Cooperator
}

// NewHandoff returns a Handoff for the given memory layout. A nil coop means
// NoCooperator.
func NewHandoff(regs hw.Registers, cpu hw.CPU, gate *clock.Gate, mem board.Memory, coop Cooperator) *Handoff {
	if coop == nil {
		coop = NoCooperator{}
	}
	return &Handoff{regs: regs, cpu: cpu, gate: gate, mem: mem, coop: coop}
}

// Request reboots into a bootloader. A cooperating flash bootloader gets the
// first chance; otherwise the flag is left for CheckPending and the chip
// resets.
func (h *Handoff) Request() {
	h.coop.TryHandoff()

	h.cpu.DisableInterrupts()
	hw.Store64(h.regs, h.mem.BootFlagAddr(), BootFlag)
	h.cpu.SystemReset()
}

// RequestHardware stores BootKey in the backup domain and resets.
func (h *Handoff) RequestHardware() {
	h.cpu.DisableInterrupts()
	h.gate.Enable(clock.Resolve(g4.PWR))
	hw.SetBits(h.regs, g4.PWR_CR1, g4.PWR_CR1_DBP)
	h.regs.Store(g4.TAMP_BKP4R, BootKey)
	hw.ClearBits(h.regs, g4.PWR_CR1, g4.PWR_CR1_DBP)
	h.cpu.SystemReset()
}

// Pending reports whether a ROM bootloader request is waiting.
func (h *Handoff) Pending() bool {
	return hw.Load64(h.regs, h.mem.BootFlagAddr()) == BootFlag
}

// CheckPending jumps into the ROM bootloader if, and only if, the flag holds
// exactly BootFlag. The flag is cleared first so the next reset boots
// normally. Any other content is left as found.
func (h *Handoff) CheckPending() {
	if !h.Pending() {
		return
	}
	hw.Store64(h.regs, h.mem.BootFlagAddr(), 0)
	sp := h.regs.Load(ROMTable)
	pc := h.regs.Load(ROMTable + 4)
	h.cpu.Jump(sp, pc)
}
