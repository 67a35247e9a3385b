package clock

import (
	"g4boot/errcode"
	g4 "g4boot/hw/stm32g4"
	"g4boot/x/mathx"
)

// Source selects the oscillator feeding the PLL.
type Source uint8

const (
	SourceHSE Source = iota // external crystal
	SourceHSI               // internal 16 MHz RC
)

func (s Source) String() string {
	if s == SourceHSI {
		return "hsi"
	}
	return "hse"
}

// USBClock selects where the 48 MHz USB kernel clock comes from.
type USBClock uint8

const (
	USBFromHSI48 USBClock = iota // RC48 trimmed by the clock recovery system
	USBFromPLLQ                  // PLL Q tap
)

// Config is the clock tree requested at build time.
type Config struct {
	Source      Source   `yaml:"source"`
	ReferenceHz uint32   `yaml:"reference_hz"` // crystal frequency; ignored for SourceHSI
	TargetHz    uint32   `yaml:"target_hz"`
	USB         bool     `yaml:"usb"`
	USBClock    USBClock `yaml:"usb_clock"`
}

const (
	// StepHz is the PLL input after the M divider.
	StepHz = 4_000_000
	// USBHz is the USB kernel clock.
	USBHz = 48_000_000
	// BoostHz is the fastest system clock allowed in range 1 normal mode.
	// Above it the regulator must run in boost mode.
	BoostHz = 150_000_000
)

// Plan holds the PLL dividers for a Config as divide ratios, not register
// encodings.
type Plan struct {
	M uint32 // input divider: ref / M == StepHz
	N uint32 // VCO multiplier: StepHz * N == 2 * TargetHz
	R uint32 // system tap divider
	Q uint32 // USB tap divider
}

// RefHz returns the frequency entering the M divider.
func (c Config) RefHz() uint32 {
	if c.Source == SourceHSI {
		return g4.HSIHz
	}
	return c.ReferenceHz
}

// Derive computes the PLL plan for c. The divisions are exact for every
// supported configuration; Validate checks that on the host.
func Derive(c Config) Plan {
	vco := c.TargetHz * 2
	return Plan{
		M: c.RefHz() / StepHz,
		N: vco / StepHz,
		R: vco / c.TargetHz,
		Q: vco / USBHz,
	}
}

// VCOHz returns the PLL oscillator frequency.
func (p Plan) VCOHz() uint32 { return StepHz * p.N }

// SysHz returns the system tap output.
func (p Plan) SysHz() uint32 { return p.VCOHz() / p.R }

// USBTapHz returns the USB tap output, or 0 when no Q divider applies.
func (p Plan) USBTapHz() uint32 {
	if p.Q == 0 {
		return 0
	}
	return p.VCOHz() / p.Q
}

// PLLCFGR encodes p for the PLL configuration register. The Q field is
// always programmed; whether the tap is enabled is up to the caller.
func (p Plan) PLLCFGR(src Source) uint32 {
	v := uint32(g4.RCC_PLLCFGR_PLLSRC_HSE)
	if src == SourceHSI {
		v = g4.RCC_PLLCFGR_PLLSRC_HSI
	}
	v |= (p.M - 1) << g4.RCC_PLLCFGR_PLLM_Pos
	v |= p.N << g4.RCC_PLLCFGR_PLLN_Pos
	v |= (p.R/2 - 1) << g4.RCC_PLLCFGR_PLLR_Pos
	if p.Q >= 2 {
		v |= ((p.Q/2 - 1) & 0x3) << g4.RCC_PLLCFGR_PLLQ_Pos
	}
	return v
}

// waitStates maps a CPU frequency ceiling to flash wait states.
var waitStates = []struct {
	maxHz uint32
	ws    uint32
}{
	{30_000_000, 0},
	{60_000_000, 1},
	{90_000_000, 2},
	{120_000_000, 3},
	{150_000_000, 4},
}

// FlashWaitStates returns the flash latency needed at hz.
func FlashWaitStates(hz uint32) uint32 {
	for _, s := range waitStates {
		if hz <= s.maxHz {
			return s.ws
		}
	}
	return 5
}

// Validate checks c against the build-time contract: exact divisions and
// the PLL's legal ranges. The boot path never calls it.
func (c Config) Validate() error {
	const op = "clock"
	if c.TargetHz == 0 {
		return errcode.New(errcode.InvalidParams, op, "target_hz must be set")
	}
	if c.Source == SourceHSE && c.ReferenceHz == 0 {
		return errcode.New(errcode.InvalidParams, op, "reference_hz must be set for hse")
	}
	if c.TargetHz > 170_000_000 {
		return errcode.New(errcode.OutOfRange, op, "target_hz above 170 MHz")
	}
	m, ok := mathx.ExactDiv(c.RefHz(), StepHz)
	if !ok {
		return errcode.New(errcode.InexactDivider, op, "reference is not a multiple of 4 MHz")
	}
	if !mathx.Between(m, 1, 16) {
		return errcode.New(errcode.OutOfRange, op, "M outside 1..16")
	}
	vco := c.TargetHz * 2
	n, ok := mathx.ExactDiv(vco, StepHz)
	if !ok {
		return errcode.New(errcode.InexactDivider, op, "2*target_hz is not a multiple of 4 MHz")
	}
	if !mathx.Between(n, 8, 127) || !mathx.Between(vco, 96_000_000, 344_000_000) {
		return errcode.New(errcode.OutOfRange, op, "VCO outside 96..344 MHz")
	}
	if c.USB && c.USBClock == USBFromPLLQ {
		q, ok := mathx.ExactDiv(vco, USBHz)
		if !ok || q%2 != 0 || !mathx.Between(q, 2, 8) {
			return errcode.New(errcode.InexactDivider, op, "no PLL Q divider gives 48 MHz")
		}
	}
	return nil
}
