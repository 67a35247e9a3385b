package clock

import (
	"testing"

	g4 "g4boot/hw/stm32g4"
	"g4boot/hw/sim"
)

func TestEnableReadsBack(t *testing.T) {
	regs := sim.New()
	g := NewGate(regs)
	l := Resolve(g4.USART2)

	g.Enable(l)

	if regs.Peek(g4.RCC_APB1ENR1)&l.Bit == 0 {
		t.Fatal("enable bit not set")
	}
	tr := regs.Trace()
	last := tr[len(tr)-1]
	prev := tr[len(tr)-2]
	if prev.Op != sim.OpStore || prev.Addr != l.En {
		t.Fatalf("expected store to enable register, got %+v", prev)
	}
	if last.Op != sim.OpLoad || last.Addr != l.En {
		t.Fatalf("expected read-back of enable register, got %+v", last)
	}
}

func TestDisableClearsWithoutReadBack(t *testing.T) {
	regs := sim.New()
	regs.Poke(g4.RCC_APB2ENR, 0xFFFFFFFF)
	g := NewGate(regs)
	l := Resolve(g4.SPI1)

	g.Disable(l)

	if got := regs.Peek(g4.RCC_APB2ENR); got != 0xFFFFFFFF&^l.Bit {
		t.Fatalf("APB2ENR = %#x", got)
	}
	tr := regs.Trace()
	if tr[len(tr)-1].Op != sim.OpStore {
		t.Fatalf("disable must end with the store, got %+v", tr[len(tr)-1])
	}
}

func TestClaimPulsesReset(t *testing.T) {
	regs := sim.New()
	g := NewGate(regs)

	l := g.Claim(g4.I2C3)

	if !g.IsEnabled(g4.I2C3) {
		t.Fatal("clock not enabled")
	}
	if regs.Peek(l.Rst) != 0 {
		t.Fatal("reset left asserted")
	}
	var sawAssert bool
	for _, a := range regs.Stores() {
		if a.Addr == l.Rst && a.Val&l.Bit != 0 {
			sawAssert = true
		}
	}
	if !sawAssert {
		t.Fatal("reset was never asserted")
	}
}

func TestNoopLineHasNoEffect(t *testing.T) {
	regs := sim.New()
	regs.Poke(g4.RCC_APB1ENR1, 0x1234)
	g := NewGate(regs)

	g.Enable(NoLine)
	g.Reset(NoLine)
	g.Disable(NoLine)

	if regs.Peek(g4.RCC_APB1ENR1) != 0x1234 {
		t.Fatal("no-op line changed APB1ENR1")
	}
	for _, a := range regs.Stores() {
		if a.Addr != g4.RCC_APB1ENR1 {
			t.Fatalf("unexpected store %+v", a)
		}
	}
	if g.IsEnabled(0x12345678) {
		t.Fatal("unknown peripheral reported enabled")
	}
}

func TestEnableGPIOMatchesGenericPath(t *testing.T) {
	for _, base := range []uint32{g4.GPIOA, g4.GPIOC, g4.GPIOG} {
		fast, slow := sim.New(), sim.New()
		NewGate(fast).EnableGPIO(GPIOPort(base))
		NewGate(slow).Enable(Resolve(base))
		if fast.Peek(g4.RCC_AHB2ENR) != slow.Peek(g4.RCC_AHB2ENR) {
			t.Fatalf("%#x: fast %#x != generic %#x", base,
				fast.Peek(g4.RCC_AHB2ENR), slow.Peek(g4.RCC_AHB2ENR))
		}
		tr := fast.Trace()
		if last := tr[len(tr)-1]; last.Op != sim.OpLoad || last.Addr != g4.RCC_AHB2ENR {
			t.Fatalf("EnableGPIO must read back, got %+v", last)
		}
	}
	if GPIOPort(g4.GPIOD) != 3 {
		t.Fatal("GPIOPort(GPIOD) != 3")
	}
}

func TestPeripheralHz(t *testing.T) {
	cfg := Config{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 150_000_000}
	if PeripheralHz(cfg, g4.I2C1) != 150_000_000 {
		t.Fatal("peripheral clock must equal the CPU clock")
	}
}
