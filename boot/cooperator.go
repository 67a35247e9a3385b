package boot

import (
	"g4boot/board"
	"g4boot/hw"
)

// Cooperator is a bootloader that can be asked to take over in an orderly
// way. TryHandoff returns only if it declines.
type Cooperator interface {
	TryHandoff()
}

// NoCooperator always declines.
type NoCooperator struct{}

func (NoCooperator) TryHandoff() {}

const (
	// KatapultSignature is "CanBoot!" little-endian; the bootloader places it
	// 9 bytes before its Thumb entry point.
	KatapultSignature uint64 = 0x21746F6F426E6143
	// KatapultRequest asks the bootloader to stay resident after reset.
	KatapultRequest uint64 = 0x5984E3FA6CA1589B
)

// FlashBootloader talks to a Katapult (formerly CanBoot) bootloader at the
// start of flash. The request word goes at the bootloader's initial stack
// pointer, which it reserves for this purpose.
type FlashBootloader struct {
	regs hw.Registers
	cpu  hw.CPU
	mem  board.Memory
}

func NewFlashBootloader(regs hw.Registers, cpu hw.CPU, mem board.Memory) *FlashBootloader {
	return &FlashBootloader{regs: regs, cpu: cpu, mem: mem}
}

// locate returns the request address if a Katapult image is present.
func (f *FlashBootloader) locate() (uint32, bool) {
	if !f.mem.HasFlashBootloader() {
		return 0, false
	}
	sp := f.regs.Load(f.mem.FlashBoot)
	entry := f.regs.Load(f.mem.FlashBoot + 4)
	sig := entry - 9
	if entry < 9 || sig%8 != 0 || sp%8 != 0 {
		return 0, false
	}
	if hw.Load64(f.regs, sig) != KatapultSignature {
		return 0, false
	}
	return sp, true
}

// Present reports whether a Katapult bootloader is installed below the
// application.
func (f *FlashBootloader) Present() bool {
	_, ok := f.locate()
	return ok
}

func (f *FlashBootloader) TryHandoff() {
	req, ok := f.locate()
	if !ok {
		return
	}
	f.cpu.DisableInterrupts()
	hw.Store64(f.regs, req, KatapultRequest)
	f.cpu.SystemReset()
}
