package sim

import (
	"path/filepath"
	"testing"

	"g4boot/hw"
	g4 "g4boot/hw/stm32g4"
)

func TestTraceAndHooks(t *testing.T) {
	r := New()
	r.OnStore(0x100, func(old, v uint32) uint32 { return old | v })
	r.Store(0x100, 1)
	r.Store(0x100, 4)
	if got := r.Load(0x100); got != 5 {
		t.Fatalf("load = %d", got)
	}
	tr := r.Trace()
	if len(tr) != 3 || tr[0].Op != OpStore || tr[2].Op != OpLoad || tr[2].Val != 5 {
		t.Fatalf("trace %+v", tr)
	}
	if len(r.Stores()) != 2 {
		t.Fatal("stores")
	}
	r.Poke(0x200, 9)
	if r.Peek(0x200) != 9 || len(r.Trace()) != 3 {
		t.Fatal("poke and peek must not trace")
	}
	r.ResetTrace()
	if len(r.Trace()) != 0 {
		t.Fatal("trace not reset")
	}
}

func TestStick(t *testing.T) {
	r := NewG4()
	r.Stick(g4.RCC_CR, g4.RCC_CR_HSERDY)
	hw.SetBits(r, g4.RCC_CR, g4.RCC_CR_HSEON)
	if hw.HasBits(r, g4.RCC_CR, g4.RCC_CR_HSERDY) {
		t.Fatal("stuck flag asserted")
	}
	if !hw.HasBits(r, g4.RCC_CR, g4.RCC_CR_HSEON) {
		t.Fatal("enable bit lost")
	}
}

func TestG4Model(t *testing.T) {
	r := NewG4()
	hw.SetBits(r, g4.RCC_CR, g4.RCC_CR_PLLON)
	if !hw.HasBits(r, g4.RCC_CR, g4.RCC_CR_PLLRDY|g4.RCC_CR_HSIRDY) {
		t.Fatalf("CR = %#x", r.Peek(g4.RCC_CR))
	}
	r.Store(g4.RCC_CFGR, g4.RCC_CFGR_SW_PLL)
	if hw.Field(r, g4.RCC_CFGR, g4.RCC_CFGR_SWS_Msk) != g4.RCC_CFGR_SWS_PLL {
		t.Fatal("SWS does not follow SW")
	}
	if r.Peek(g4.SystemBase) != ROMStackPointer || r.Peek(g4.SystemBase+4) != ROMEntry {
		t.Fatal("ROM table")
	}
}

func TestRunCapturesTerminalActions(t *testing.T) {
	r := New()
	cpu := NewCPU(r)

	if term := Run(func() { cpu.SystemReset() }); term != (Reset{}) {
		t.Fatalf("terminal %#v", term)
	}
	term := Run(func() {
		cpu.DisableInterrupts()
		cpu.Jump(0x20001000, 0x1FFF0101)
		t.Fatal("jump returned")
	})
	if term != (Jump{SP: 0x20001000, PC: 0x1FFF0101}) {
		t.Fatalf("terminal %#v", term)
	}
	if Run(func() {}) != nil {
		t.Fatal("normal return reported as terminal")
	}
	ops := []Op{OpReset, OpIRQOff, OpJump}
	for i, a := range r.Trace() {
		if a.Op != ops[i] {
			t.Fatalf("trace[%d] = %v", i, a.Op)
		}
	}

	defer func() {
		if recover() != "boom" {
			t.Fatal("foreign panic swallowed")
		}
	}()
	Run(func() { panic("boom") })
}

type counter struct{ loads, stores int }

func (c *counter) Load(off uint32) uint32 { c.loads++; return off }
func (c *counter) Store(uint32, uint32)   { c.stores++ }

func TestMap(t *testing.T) {
	r := New()
	c := &counter{}
	r.Map(0x1000, 0x400, c)
	if got := r.Load(0x1010); got != 0x10 {
		t.Fatalf("load = %#x", got)
	}
	r.Store(0x13FC, 1)
	r.Store(0x1400, 1)
	if c.loads != 1 || c.stores != 1 {
		t.Fatalf("device saw %d loads, %d stores", c.loads, c.stores)
	}
}

func TestRetainedSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ram")
	m, err := OpenRetained(path, 0x20000000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	r := New()
	r.Attach(m)
	hw.Store64(r, 0x20000FF8, 0x55534220424F4F54)
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	m, err = OpenRetained(path, 0x20000000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	r = New()
	r.Attach(m)
	if got := hw.Load64(r, 0x20000FF8); got != 0x55534220424F4F54 {
		t.Fatalf("after reopen %#x", got)
	}
	m.Wipe()
	if hw.Load64(r, 0x20000FF8) != 0 {
		t.Fatal("wipe")
	}
}

func TestHeapRetained(t *testing.T) {
	m := NewRetained(0x20000000, 16)
	r := New()
	r.Attach(m)
	r.Store(0x2000000C, 7)
	r.Store(0x20000010, 8) // outside: plain register
	if m.Size() != 16 || m.Base() != 0x20000000 || m.load(0x2000000C) != 7 {
		t.Fatal("window")
	}
	if m.contains(0x20000010) || m.Close() != nil {
		t.Fatal("bounds")
	}
}
