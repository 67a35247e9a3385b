package clock

import (
	"g4boot/hw"
	g4 "g4boot/hw/stm32g4"
)

// Gate switches peripheral clock lines on and off.
type Gate struct {
	regs hw.Registers
}

func NewGate(regs hw.Registers) *Gate { return &Gate{regs: regs} }

// Enable turns l on. The enable register is read back before returning so
// the write has landed before the caller touches the peripheral.
func (g *Gate) Enable(l Line) {
	hw.SetBits(g.regs, l.En, l.Bit)
	_ = g.regs.Load(l.En)
}

// Disable turns l off.
func (g *Gate) Disable(l Line) {
	hw.ClearBits(g.regs, l.En, l.Bit)
}

// Reset pulses l's reset bit. Lines without reset control are left alone.
func (g *Gate) Reset(l Line) {
	if l.Rst == 0 || l.Bit == 0 {
		return
	}
	hw.SetBits(g.regs, l.Rst, l.Bit)
	hw.ClearBits(g.regs, l.Rst, l.Bit)
}

// Claim enables the clock for the peripheral at addr and resets it, leaving
// the block in its power-on state.
func (g *Gate) Claim(addr uint32) Line {
	l := Resolve(addr)
	g.Enable(l)
	g.Reset(l)
	return l
}

// IsEnabled reports whether the clock for the peripheral at addr is on.
// Unknown peripherals report false.
func (g *Gate) IsEnabled(addr uint32) bool {
	l := Resolve(addr)
	return l.Bit != 0 && hw.HasBits(g.regs, l.En, l.Bit)
}

// EnableGPIO turns on the clock of GPIO port (0 = A). Ports are contiguous
// in AHB2, so the bit is the port index.
func (g *Gate) EnableGPIO(port int) {
	hw.SetBits(g.regs, g4.RCC_AHB2ENR, 1<<port)
	_ = g.regs.Load(g4.RCC_AHB2ENR)
}

// GPIOPort returns the port index of a GPIO register block.
func GPIOPort(addr uint32) int {
	return int((addr - g4.GPIOA) / g4.BlockStride)
}

// PeripheralHz returns the clock feeding the peripheral at addr. All bus
// prescalers are left at one, so every peripheral runs at the CPU clock.
func PeripheralHz(cfg Config, _ uint32) uint32 {
	return cfg.TargetHz
}
