// Package clock owns the STM32G4 reset and clock controller: mapping
// peripherals to their clock lines, gating those lines, and bringing the
// system clock up to the configured frequency.
package clock

import (
	g4 "g4boot/hw/stm32g4"
	"g4boot/x/conv"
	"g4boot/x/mathx"
)

// Line is the enable/reset control for one peripheral clock.
//
// En and Rst are register addresses; Rst == 0 means the line has no reset
// control. Bit is a mask with at most one bit set. The zero-Bit line is the
// no-op line returned for unknown peripherals.
type Line struct {
	En  uint32
	Rst uint32
	Bit uint32
}

// NoLine is returned for addresses that map to no clock line.
var NoLine = Line{En: g4.RCC_APB1ENR1}

// IsNoop reports whether operations on l have no effect.
func (l Line) IsNoop() bool { return l.Bit == 0 }

// Index returns the bit position of l, or 0 for the no-op line.
func (l Line) Index() int {
	for i := 0; i < 32; i++ {
		if l.Bit == 1<<i {
			return i
		}
	}
	return 0
}

func (l Line) String() string {
	if l.IsNoop() {
		return "none"
	}
	var b [20]byte
	return conv.Hex32(l.En) + "[" + string(conv.Utoa(b[:], uint64(l.Index()))) + "]"
}

// Override pins one peripheral to an explicit line.
type Override struct {
	Name string
	Addr uint32
	Line Line
}

// Window is a run of equally spaced peripheral blocks sharing one
// enable/reset register pair. Blocks past the 32nd use En2/Rst2.
type Window struct {
	Name       string
	Start, End uint32 // inclusive
	Stride     uint32
	En, Rst    uint32
	En2, Rst2  uint32
}

// Table is a complete peripheral-to-line mapping. Overrides are consulted
// before windows.
type Table struct {
	Overrides []Override
	Windows   []Window
}

func bit(i int) uint32 { return 1 << i }

func apb1(i int) Line { return Line{En: g4.RCC_APB1ENR1, Rst: g4.RCC_APB1RSTR1, Bit: bit(i)} }
func ahb1(i int) Line { return Line{En: g4.RCC_AHB1ENR, Rst: g4.RCC_AHB1RSTR, Bit: bit(i)} }
func ahb2(i int) Line { return Line{En: g4.RCC_AHB2ENR, Rst: g4.RCC_AHB2RSTR, Bit: bit(i)} }
func ahb3(i int) Line { return Line{En: g4.RCC_AHB3ENR, Rst: g4.RCC_AHB3RSTR, Bit: bit(i)} }

// G4 is the STM32G4 mapping.
var G4 = Table{
	Overrides: []Override{
		{"fdcan2", g4.FDCAN2, apb1(g4.RCC_APB1ENR1_FDCANEN)},
		{"fdcan3", g4.FDCAN3, apb1(g4.RCC_APB1ENR1_FDCANEN)},
		{"tamp", g4.TAMP, apb1(g4.RCC_APB1ENR1_RTCAPBEN)},
		// The RCC block sits in the ahb1 window but has no gate of its own.
		{"rcc", g4.RCC, NoLine},
		{"fmac", g4.FMAC, ahb1(g4.RCC_AHB1ENR_FMACEN)},
		{"adc1", g4.ADC1, ahb2(g4.RCC_AHB2ENR_ADC12EN)},
		{"adc2", g4.ADC2, ahb2(g4.RCC_AHB2ENR_ADC12EN)},
		{"adc12_common", g4.ADC12Common, ahb2(g4.RCC_AHB2ENR_ADC12EN)},
		{"adc3", g4.ADC3, ahb2(g4.RCC_AHB2ENR_ADC345EN)},
		{"adc4", g4.ADC4, ahb2(g4.RCC_AHB2ENR_ADC345EN)},
		{"adc5", g4.ADC5, ahb2(g4.RCC_AHB2ENR_ADC345EN)},
		{"adc345_common", g4.ADC345Common, ahb2(g4.RCC_AHB2ENR_ADC345EN)},
		{"dac1", g4.DAC1, ahb2(g4.RCC_AHB2ENR_DAC1EN)},
		{"dac2", g4.DAC2, ahb2(g4.RCC_AHB2ENR_DAC2EN)},
		{"dac3", g4.DAC3, ahb2(g4.RCC_AHB2ENR_DAC3EN)},
		{"dac4", g4.DAC4, ahb2(g4.RCC_AHB2ENR_DAC4EN)},
		{"aes", g4.AES, ahb2(g4.RCC_AHB2ENR_AESEN)},
		{"rng", g4.RNG, ahb2(g4.RCC_AHB2ENR_RNGEN)},
		{"fmc", g4.FMC, ahb3(g4.RCC_AHB3ENR_FMCEN)},
		{"quadspi", g4.QUADSPI, ahb3(g4.RCC_AHB3ENR_QSPIEN)},
	},
	Windows: []Window{
		{
			Name: "apb1", Start: g4.APB1Base, End: g4.APB1Base + 0xA3FF, Stride: g4.BlockStride,
			En: g4.RCC_APB1ENR1, Rst: g4.RCC_APB1RSTR1,
			En2: g4.RCC_APB1ENR2, Rst2: g4.RCC_APB1RSTR2,
		},
		{
			Name: "apb2", Start: g4.APB2Base, End: g4.APB2Base + 0x7FFF, Stride: g4.BlockStride,
			En: g4.RCC_APB2ENR, Rst: g4.RCC_APB2RSTR,
		},
		{
			Name: "ahb1", Start: g4.AHB1Base, End: g4.AHB1Base + 0x7FFF, Stride: g4.BlockStride,
			En: g4.RCC_AHB1ENR, Rst: g4.RCC_AHB1RSTR,
		},
		{
			Name: "ahb2", Start: g4.AHB2Base, End: g4.AHB2Base + 0x7FFF, Stride: g4.BlockStride,
			En: g4.RCC_AHB2ENR, Rst: g4.RCC_AHB2RSTR,
		},
	},
}

// Resolve maps a peripheral base address to its clock line using G4.
func Resolve(addr uint32) Line { return ResolveIn(&G4, addr) }

// ResolveIn maps addr to a line using tab. It never fails: addresses outside
// every override and window give NoLine.
func ResolveIn(tab *Table, addr uint32) Line {
	for i := range tab.Overrides {
		if tab.Overrides[i].Addr == addr {
			return tab.Overrides[i].Line
		}
	}
	for i := range tab.Windows {
		w := &tab.Windows[i]
		if !mathx.Between(addr, w.Start, w.End) {
			continue
		}
		pos := (addr - w.Start) / w.Stride
		if pos < 32 {
			return Line{En: w.En, Rst: w.Rst, Bit: 1 << pos}
		}
		if w.En2 == 0 || pos >= 64 {
			return NoLine
		}
		return Line{En: w.En2, Rst: w.Rst2, Bit: 1 << (pos - 32)}
	}
	return NoLine
}
