// Package gpio drives the STM32G4 GPIO ports through hw.Registers.
//
// A Pin packs port and line as port*16+line, so PA0 is 0 and PB3 is 19.
// Configure enables the port clock before touching the port.
package gpio

import (
	"g4boot/clock"
	"g4boot/errcode"
	"g4boot/hw"
	g4 "g4boot/hw/stm32g4"
	"g4boot/x/conv"
)

type Pin uint8

// P builds a pin from a port letter and line number, e.g. P('A', 5).
func P(port byte, line uint8) Pin { return Pin((port-'A')*16 + line&15) }

func (p Pin) Port() int   { return int(p) / 16 }
func (p Pin) Line() uint8 { return uint8(p) % 16 }

// Base returns the register block of the pin's port.
func (p Pin) Base() uint32 { return g4.GPIOA + uint32(p.Port())*g4.BlockStride }

func (p Pin) String() string {
	var b [4]byte
	b[0], b[1] = 'P', 'A'+byte(p.Port())
	n := len(conv.Utoa(b[2:], uint64(p.Line())))
	// Utoa right-aligns; shift single digits down.
	if n == 1 {
		b[2] = b[3]
	}
	return string(b[:2+n])
}

// ParsePin accepts names of the form "PA5" or "pc13".
func ParsePin(s string) (Pin, error) {
	if len(s) < 3 || len(s) > 4 || (s[0] != 'P' && s[0] != 'p') {
		return 0, errcode.New(errcode.UnknownPin, "gpio.ParsePin", s)
	}
	port := s[1]
	if port >= 'a' && port <= 'z' {
		port -= 'a' - 'A'
	}
	if port < 'A' || int(port-'A') >= g4.GPIOPorts {
		return 0, errcode.New(errcode.UnknownPin, "gpio.ParsePin", s)
	}
	var n uint8
	for _, c := range []byte(s[2:]) {
		if c < '0' || c > '9' {
			return 0, errcode.New(errcode.UnknownPin, "gpio.ParsePin", s)
		}
		n = n*10 + (c - '0')
	}
	if n > 15 {
		return 0, errcode.New(errcode.UnknownPin, "gpio.ParsePin", s)
	}
	return P(port, n), nil
}

type Mode uint8

const (
	ModeInput Mode = iota
	ModeOutput
	ModeAlt
	ModeAnalog
)

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Config describes a pin function. AltFunc applies only to ModeAlt.
type Config struct {
	Mode      Mode
	Pull      Pull
	OpenDrain bool
	AltFunc   uint8
	// Speed 0..3 (low..very high).
	Speed uint8
}

// Controller owns the GPIO ports.
type Controller struct {
	regs hw.Registers
	gate *clock.Gate
}

func New(regs hw.Registers, gate *clock.Gate) *Controller {
	return &Controller{regs: regs, gate: gate}
}

// Configure sets the function of p. The alternate function is written
// before the mode so the pin never drives an unintended peripheral.
func (c *Controller) Configure(p Pin, cfg Config) {
	base := p.Base()
	c.gate.EnableGPIO(p.Port())

	n := uint32(p.Line())
	if cfg.Mode == ModeAlt {
		afr := base + g4.GPIO_AFRL
		if n >= 8 {
			afr = base + g4.GPIO_AFRH
		}
		sh := (n % 8) * 4
		c.field(afr, 0xF<<sh, uint32(cfg.AltFunc&0xF)<<sh)
	}
	var od uint32
	if cfg.OpenDrain {
		od = 1 << n
	}
	c.field(base+g4.GPIO_OTYPER, 1<<n, od)
	c.field(base+g4.GPIO_OSPEEDR, 3<<(n*2), uint32(cfg.Speed&3)<<(n*2))
	c.field(base+g4.GPIO_PUPDR, 3<<(n*2), uint32(cfg.Pull)<<(n*2))
	c.field(base+g4.GPIO_MODER, 3<<(n*2), uint32(cfg.Mode)<<(n*2))
}

func (c *Controller) field(addr, mask, v uint32) {
	c.regs.Store(addr, c.regs.Load(addr)&^mask|v)
}

// Set drives p high or low through BSRR, which needs no read-modify-write.
func (c *Controller) Set(p Pin, high bool) {
	bit := uint32(1) << p.Line()
	if !high {
		bit <<= 16
	}
	c.regs.Store(p.Base()+g4.GPIO_BSRR, bit)
}

// Get returns the input level of p.
func (c *Controller) Get(p Pin) bool {
	return c.regs.Load(p.Base()+g4.GPIO_IDR)&(1<<p.Line()) != 0
}

// Toggle inverts the output latch of p.
func (c *Controller) Toggle(p Pin) {
	out := c.regs.Load(p.Base()+g4.GPIO_ODR)&(1<<p.Line()) != 0
	c.Set(p, !out)
}

// Output is a configured push-pull output.
type Output struct {
	c   *Controller
	pin Pin
}

// NewOutput configures p as an output driven to initial.
func (c *Controller) NewOutput(p Pin, initial bool) Output {
	c.gate.EnableGPIO(p.Port())
	c.Set(p, initial)
	c.Configure(p, Config{Mode: ModeOutput})
	return Output{c: c, pin: p}
}

func (o Output) High()    { o.c.Set(o.pin, true) }
func (o Output) Low()     { o.c.Set(o.pin, false) }
func (o Output) Toggle()  { o.c.Toggle(o.pin) }
func (o Output) Pin() Pin { return o.pin }
