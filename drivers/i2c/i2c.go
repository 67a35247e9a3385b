// Package i2c is a polled master driver for the STM32G4 I2C controllers.
//
// Bus implements tinygo.org/x/drivers.I2C, so sensor drivers from that
// module run unchanged on top of it. Transfers are limited to 255 bytes per
// direction (one NBYTES load, no reload).
package i2c

import (
	"tinygo.org/x/drivers"

	"g4boot/clock"
	"g4boot/drivers/gpio"
	"g4boot/errcode"
	"g4boot/hw"
	g4 "g4boot/hw/stm32g4"
	"g4boot/x/mathx"
)

var _ drivers.I2C = (*Bus)(nil)

// Standard bus rates.
const (
	Standard = 100_000
	Fast     = 400_000
)

// DefaultPolls bounds every flag wait.
const DefaultPolls = 100_000

// Config selects pins and rate. Zero Frequency means Standard.
type Config struct {
	Frequency uint32
	SCL, SDA  gpio.Pin
	AltFunc   uint8
}

// Bus is one I2C controller.
type Bus struct {
	regs hw.Registers
	gate *clock.Gate
	base uint32

	// Polls bounds each wait for a status flag.
	Polls int
}

// New returns a bus for the controller at base (g4.I2C1..g4.I2C4).
func New(regs hw.Registers, gate *clock.Gate, base uint32) *Bus {
	return &Bus{regs: regs, gate: gate, base: base, Polls: DefaultPolls}
}

// Configure claims the controller clock, routes the pins and programs the
// timing for pclk, the clock feeding the controller.
func (b *Bus) Configure(pins *gpio.Controller, cfg Config, pclk uint32) error {
	if cfg.Frequency == 0 {
		cfg.Frequency = Standard
	}
	timing, err := Timing(pclk, cfg.Frequency)
	if err != nil {
		return err
	}
	b.gate.Claim(b.base)

	pin := gpio.Config{Mode: gpio.ModeAlt, OpenDrain: true, Pull: gpio.PullUp, AltFunc: cfg.AltFunc}
	pins.Configure(cfg.SCL, pin)
	pins.Configure(cfg.SDA, pin)

	b.regs.Store(b.base+g4.I2C_CR1, 0)
	b.regs.Store(b.base+g4.I2C_TIMINGR, timing)
	b.regs.Store(b.base+g4.I2C_CR1, g4.I2C_CR1_PE)
	return nil
}

// Bus timing in nanoseconds: SCL low, SCL high, data hold, data setup.
type phases struct{ low, high, hold, setup uint32 }

var (
	standardPhases = phases{low: 5000, high: 4000, hold: 500, setup: 1250}
	fastPhases     = phases{low: 1250, high: 500, hold: 375, setup: 500}
)

// tickHz is the nominal timing clock; the prescaler divides pclk down to it.
const tickHz = 8_000_000

// Timing computes TIMINGR for a controller clocked at pclk.
func Timing(pclk, hz uint32) (uint32, error) {
	if pclk == 0 || hz == 0 || hz > Fast {
		return 0, errcode.New(errcode.InvalidParams, "i2c.Timing", "unsupported rate")
	}
	ph := standardPhases
	if hz > Standard {
		ph = fastPhases
	}
	presc := mathx.Clamp(mathx.CeilDiv(pclk, tickHz), 1, 16)
	tick := uint64(pclk / presc)
	count := func(ns uint32) uint32 {
		return uint32(mathx.CeilDiv(uint64(ns)*tick, 1_000_000_000))
	}
	scll, sclh, sdadel, scldel := count(ph.low), count(ph.high), count(ph.hold), count(ph.setup)
	if !mathx.Between(scll, 1, 256) || !mathx.Between(sclh, 1, 256) ||
		sdadel > 15 || !mathx.Between(scldel, 1, 16) {
		return 0, errcode.New(errcode.OutOfRange, "i2c.Timing", "peripheral clock too fast")
	}
	return (presc-1)<<28 | (scldel-1)<<20 | sdadel<<16 | (sclh-1)<<8 | (scll-1), nil
}

// Tx writes w then reads into r with a repeated start, as drivers.I2C
// requires. Both empty is an address probe.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(w) > 255 || len(r) > 255 || addr > 0x7F {
		return errcode.New(errcode.InvalidParams, "i2c.Tx", "transfer too long or bad address")
	}
	if !clock.Poll(func() bool { return !hw.HasBits(b.regs, b.base+g4.I2C_ISR, g4.I2C_ISR_BUSY) }, b.Polls) {
		return errcode.New(errcode.Timeout, "i2c.Tx", "bus busy")
	}

	sadd := uint32(addr) << 1
	if len(w) > 0 || len(r) == 0 {
		cr2 := sadd | uint32(len(w))<<g4.I2C_CR2_NBYTES_Pos | g4.I2C_CR2_START
		if len(r) == 0 {
			cr2 |= g4.I2C_CR2_AUTOEND
		}
		b.regs.Store(b.base+g4.I2C_CR2, cr2)
		for _, c := range w {
			if err := b.wait(g4.I2C_ISR_TXIS); err != nil {
				return b.abort(err, len(r) == 0)
			}
			b.regs.Store(b.base+g4.I2C_TXDR, uint32(c))
		}
		if len(r) > 0 {
			if err := b.wait(g4.I2C_ISR_TC); err != nil {
				return b.abort(err, false)
			}
		}
	}

	if len(r) > 0 {
		b.regs.Store(b.base+g4.I2C_CR2, sadd|g4.I2C_CR2_RD_WRN|
			uint32(len(r))<<g4.I2C_CR2_NBYTES_Pos|g4.I2C_CR2_START|g4.I2C_CR2_AUTOEND)
		for i := range r {
			if err := b.wait(g4.I2C_ISR_RXNE); err != nil {
				return b.abort(err, true)
			}
			r[i] = byte(b.regs.Load(b.base + g4.I2C_RXDR))
		}
	}

	if err := b.wait(g4.I2C_ISR_STOPF); err != nil {
		return b.abort(err, true)
	}
	b.regs.Store(b.base+g4.I2C_ICR, g4.I2C_ICR_STOPCF)
	return nil
}

// wait polls ISR until flag is set. A NACK ends the wait early.
func (b *Bus) wait(flag uint32) error {
	var isr uint32
	ok := clock.Poll(func() bool {
		isr = b.regs.Load(b.base + g4.I2C_ISR)
		return isr&(flag|g4.I2C_ISR_NACKF) != 0
	}, b.Polls)
	switch {
	case !ok:
		return errcode.New(errcode.Timeout, "i2c.Tx", "flag never set")
	case isr&g4.I2C_ISR_NACKF != 0:
		return errcode.Nack
	}
	return nil
}

// abort releases the bus after a failed transfer. Without AUTOEND the
// controller holds SCL low until told to stop.
func (b *Bus) abort(err error, autoend bool) error {
	if !autoend {
		hw.SetBits(b.regs, b.base+g4.I2C_CR2, g4.I2C_CR2_STOP)
	}
	clock.Poll(func() bool { return hw.HasBits(b.regs, b.base+g4.I2C_ISR, g4.I2C_ISR_STOPF) }, b.Polls)
	b.regs.Store(b.base+g4.I2C_ICR, g4.I2C_ICR_NACKCF|g4.I2C_ICR_STOPCF)
	return err
}
