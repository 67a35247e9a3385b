package clock

import (
	"g4boot/hw"
	g4 "g4boot/hw/stm32g4"
)

// State is a step of clock tree bring-up. States only move forward.
type State uint8

const (
	StateReset State = iota
	StateSourceStarting
	StateMultiplierProgrammed
	StateUSBRecoveryStarting
	StateFlashLatencySet
	StateMultiplierLocked
	StateSwitchedToMultiplier
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateSourceStarting:
		return "source_starting"
	case StateMultiplierProgrammed:
		return "multiplier_programmed"
	case StateUSBRecoveryStarting:
		return "usb_recovery_starting"
	case StateFlashLatencySet:
		return "flash_latency_set"
	case StateMultiplierLocked:
		return "multiplier_locked"
	case StateSwitchedToMultiplier:
		return "switched_to_multiplier"
	default:
		return "unknown"
	}
}

// Tree sequences oscillator start, PLL programming, flash timing and the
// system clock switch.
type Tree struct {
	regs  hw.Registers
	wait  Waiter
	gate  *Gate
	cfg   Config
	state State

	// OnState, if set, observes every transition.
	OnState func(State)
}

func NewTree(regs hw.Registers, wait Waiter, gate *Gate, cfg Config) *Tree {
	return &Tree{regs: regs, wait: wait, gate: gate, cfg: cfg}
}

// State returns the last state reached.
func (t *Tree) State() State { return t.state }

// Config returns the configuration the tree was built with.
func (t *Tree) Config() Config { return t.cfg }

func (t *Tree) enter(s State) {
	t.state = s
	if t.OnState != nil {
		t.OnState(s)
	}
}

func (t *Tree) ready(addr, bits uint32) func() bool {
	return func() bool { return hw.HasBits(t.regs, addr, bits) }
}

// Configure runs bring-up to completion. Every wait is unbounded when the
// tree uses Spin.
func (t *Tree) Configure() {
	t.startSource()
	t.programPLL()
	if t.cfg.USB && t.cfg.USBClock == USBFromHSI48 {
		t.startRecovery()
	}
	t.setFlashLatency()

	t.wait.Until(t.ready(g4.RCC_CR, g4.RCC_CR_PLLRDY))
	t.enter(StateMultiplierLocked)

	t.switchToPLL()
}

func (t *Tree) startSource() {
	t.enter(StateSourceStarting)
	if t.cfg.Source == SourceHSI {
		hw.SetBits(t.regs, g4.RCC_CR, g4.RCC_CR_HSION)
		t.wait.Until(t.ready(g4.RCC_CR, g4.RCC_CR_HSIRDY))
		return
	}
	hw.SetBits(t.regs, g4.RCC_CR, g4.RCC_CR_HSEON)
	t.wait.Until(t.ready(g4.RCC_CR, g4.RCC_CR_HSERDY))
}

func (t *Tree) programPLL() {
	pllcfgr := Derive(t.cfg).PLLCFGR(t.cfg.Source)
	if t.cfg.USB && t.cfg.USBClock == USBFromPLLQ {
		pllcfgr |= g4.RCC_PLLCFGR_PLLQEN
		ccipr := t.regs.Load(g4.RCC_CCIPR) &^ g4.RCC_CCIPR_CLK48SEL_Msk
		t.regs.Store(g4.RCC_CCIPR, ccipr|g4.RCC_CCIPR_CLK48SEL_PLLQ)
	}
	t.regs.Store(g4.RCC_PLLCFGR, pllcfgr)
	hw.SetBits(t.regs, g4.RCC_CR, g4.RCC_CR_PLLON)
	t.enter(StateMultiplierProgrammed)
}

// startRecovery brings up the 48 MHz RC oscillator and lets the clock
// recovery system trim it continuously.
func (t *Tree) startRecovery() {
	t.enter(StateUSBRecoveryStarting)
	hw.SetBits(t.regs, g4.RCC_CRRCR, g4.RCC_CRRCR_HSI48ON)
	t.wait.Until(t.ready(g4.RCC_CRRCR, g4.RCC_CRRCR_HSI48RDY))
	t.gate.Claim(g4.CRS)
	hw.SetBits(t.regs, g4.CRS_CR, g4.CRS_CR_AUTOTRIMEN|g4.CRS_CR_CEN)
}

func (t *Tree) setFlashLatency() {
	ws := FlashWaitStates(t.cfg.TargetHz)
	t.regs.Store(g4.FLASH_ACR, ws<<g4.FLASH_ACR_LATENCY_Pos|
		g4.FLASH_ACR_ICEN|g4.FLASH_ACR_DCEN|g4.FLASH_ACR_PRFTEN|g4.FLASH_ACR_DBG_SWEN)

	// GPIO pull-up/pull-down settings only apply with APC set.
	t.gate.Enable(Resolve(g4.PWR))
	hw.SetBits(t.regs, g4.PWR_CR3, g4.PWR_CR3_APC)
	if t.boost() {
		hw.ClearBits(t.regs, g4.PWR_CR5, g4.PWR_CR5_R1MODE)
	}
	t.enter(StateFlashLatencySet)
}

func (t *Tree) boost() bool { return t.cfg.TargetHz > BoostHz }

// switchToPLL selects the PLL as system clock. In boost mode the AHB runs at
// half speed across the switch and goes back to full speed once SWS follows.
func (t *Tree) switchToPLL() {
	hw.SetBits(t.regs, g4.RCC_PLLCFGR, g4.RCC_PLLCFGR_PLLREN)
	cfgr := uint32(g4.RCC_CFGR_HPRE_DIV1 | g4.RCC_CFGR_PPRE1_DIV1 |
		g4.RCC_CFGR_PPRE2_DIV1 | g4.RCC_CFGR_SW_PLL)
	if t.boost() {
		t.regs.Store(g4.RCC_CFGR, cfgr&^g4.RCC_CFGR_HPRE_Msk|g4.RCC_CFGR_HPRE_DIV2)
	} else {
		t.regs.Store(g4.RCC_CFGR, cfgr)
	}
	t.wait.Until(func() bool {
		return hw.Field(t.regs, g4.RCC_CFGR, g4.RCC_CFGR_SWS_Msk) == g4.RCC_CFGR_SWS_PLL
	})
	if t.boost() {
		t.regs.Store(g4.RCC_CFGR, cfgr)
	}
	t.enter(StateSwitchedToMultiplier)
}

// ResetStale returns the RCC to its reset configuration: HSI16 as system
// clock, PLL off, peripheral clocks at their reset values. A bootloader that
// ran before us may have left any of these changed.
func ResetStale(regs hw.Registers, wait Waiter) {
	hw.SetBits(regs, g4.RCC_CR, g4.RCC_CR_HSION)
	wait.Until(func() bool { return hw.HasBits(regs, g4.RCC_CR, g4.RCC_CR_HSIRDY) })
	regs.Store(g4.RCC_CFGR, g4.RCC_CFGR_SW_HSI)
	wait.Until(func() bool {
		return hw.Field(regs, g4.RCC_CFGR, g4.RCC_CFGR_SWS_Msk) == g4.RCC_CFGR_SWS_HSI
	})
	regs.Store(g4.RCC_CR, g4.RCC_CR_HSION)
	wait.Until(func() bool { return !hw.HasBits(regs, g4.RCC_CR, g4.RCC_CR_PLLRDY) })
	regs.Store(g4.RCC_PLLCFGR, g4.RCC_PLLCFGR_Reset)
	regs.Store(g4.RCC_AHB1ENR, g4.RCC_AHB1ENR_Reset)
	regs.Store(g4.RCC_AHB2ENR, g4.RCC_AHB2ENR_Reset)
	regs.Store(g4.RCC_APB1ENR1, g4.RCC_APB1ENR1_Reset)
	regs.Store(g4.RCC_APB1ENR2, g4.RCC_APB1ENR2_Reset)
	regs.Store(g4.RCC_APB2ENR, g4.RCC_APB2ENR_Reset)
}
