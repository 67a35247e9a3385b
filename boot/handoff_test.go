package boot

import (
	"testing"

	"g4boot/board"
	"g4boot/clock"
	"g4boot/hw"
	"g4boot/hw/sim"
	g4 "g4boot/hw/stm32g4"
)

var mem = board.NucleoG431RB.Memory

func newHandoff(coop Cooperator) (*Handoff, *sim.Registers, *sim.CPU) {
	regs := sim.NewG4()
	cpu := sim.NewCPU(regs)
	return NewHandoff(regs, cpu, clock.NewGate(regs), mem, coop), regs, cpu
}

// flagAt reads the boot flag without adding to the trace.
func flagAt(regs *sim.Registers) uint64 {
	addr := mem.BootFlagAddr()
	return uint64(regs.Peek(addr)) | uint64(regs.Peek(addr+4))<<32
}

func TestCheckPendingJumpsOnExactFlag(t *testing.T) {
	h, regs, cpu := newHandoff(nil)
	hw.Store64(regs, mem.BootFlagAddr(), BootFlag)
	regs.ResetTrace()

	term := sim.Run(h.CheckPending)
	tr := regs.Trace()

	jump, ok := term.(sim.Jump)
	if !ok {
		t.Fatalf("terminal = %#v, want a jump", term)
	}
	if jump.SP != sim.ROMStackPointer || jump.PC != sim.ROMEntry {
		t.Fatalf("jump to sp=%#x pc=%#x", jump.SP, jump.PC)
	}
	if got := flagAt(regs); got != 0 {
		t.Fatalf("flag = %#x after jump, want cleared", got)
	}
	if len(tr) == 0 || tr[len(tr)-1].Op != sim.OpJump || !cpu.JumpCalled {
		t.Fatalf("jump is not the last action: %v", tr)
	}
	// Both flag words are cleared before control leaves.
	cleared := 0
	for _, a := range tr[:len(tr)-1] {
		if a.Op == sim.OpStore && a.Val == 0 &&
			(a.Addr == mem.BootFlagAddr() || a.Addr == mem.BootFlagAddr()+4) {
			cleared++
		}
	}
	if cleared != 2 {
		t.Fatalf("flag words cleared before the jump: %d", cleared)
	}
}

func TestCheckPendingIgnoresOtherValues(t *testing.T) {
	swapped := uint64(0x544F4F4220425355)
	for _, v := range []uint64{0, BootFlag ^ 1, BootFlag ^ 1<<63, swapped, 0xFFFFFFFFFFFFFFFF} {
		h, regs, cpu := newHandoff(nil)
		hw.Store64(regs, mem.BootFlagAddr(), v)
		regs.ResetTrace()

		if term := sim.Run(h.CheckPending); term != nil {
			t.Fatalf("%#x: terminal %#v", v, term)
		}
		if cpu.JumpCalled {
			t.Fatalf("%#x: jumped", v)
		}
		if len(regs.Stores()) != 0 {
			t.Fatalf("%#x: stores %v", v, regs.Stores())
		}
		if got := flagAt(regs); got != v {
			t.Fatalf("%#x: flag changed to %#x", v, got)
		}
	}
}

func TestRequestSetsFlagAndResets(t *testing.T) {
	h, regs, cpu := newHandoff(nil)

	term := sim.Run(h.Request)
	tr := regs.Trace()

	if _, ok := term.(sim.Reset); !ok {
		t.Fatalf("terminal = %#v, want reset", term)
	}
	if cpu.Resets != 1 || !cpu.IRQMasked {
		t.Fatalf("cpu = %+v", cpu)
	}
	if got := flagAt(regs); got != BootFlag {
		t.Fatalf("flag = %#x, want %#x", got, BootFlag)
	}
	irq, flag := -1, -1
	for i, a := range tr {
		switch {
		case a.Op == sim.OpIRQOff:
			irq = i
		case a.Op == sim.OpStore && a.Addr == mem.BootFlagAddr()+4:
			flag = i
		}
	}
	if irq < 0 || flag < 0 || irq > flag {
		t.Fatalf("irq_off at %d, final flag store at %d", irq, flag)
	}
	if tr[len(tr)-1].Op != sim.OpReset {
		t.Fatalf("reset is not the last action: %v", tr[len(tr)-1].Op)
	}
}

func TestRequestThenBootHandsOff(t *testing.T) {
	h, regs, cpu := newHandoff(nil)
	sim.Run(h.Request)

	// Same RAM, next boot.
	next := NewHandoff(regs, cpu, clock.NewGate(regs), mem, nil)
	if _, ok := sim.Run(next.CheckPending).(sim.Jump); !ok {
		t.Fatal("request did not survive reset")
	}
	if next.Pending() {
		t.Fatal("flag survived the handoff")
	}
	if sim.Run(next.CheckPending) != nil {
		t.Fatal("handoff fired twice")
	}
}

func TestRequestHardware(t *testing.T) {
	h, regs, cpu := newHandoff(nil)

	if _, ok := sim.Run(h.RequestHardware).(sim.Reset); !ok {
		t.Fatal("no reset")
	}
	if got := regs.Peek(g4.TAMP_BKP4R); got != BootKey {
		t.Fatalf("BKP4R = %#x", got)
	}
	if hw.HasBits(regs, g4.PWR_CR1, g4.PWR_CR1_DBP) {
		t.Fatal("backup domain left unlocked")
	}
	if !clock.NewGate(regs).IsEnabled(g4.PWR) {
		t.Fatal("PWR clock off")
	}
	if h.Pending() {
		t.Fatal("RAM flag set by the hardware path")
	}

	// DBP is set before the key is written and cleared after.
	var seq []uint32
	for _, a := range regs.Stores() {
		if a.Addr == g4.PWR_CR1 || a.Addr == g4.TAMP_BKP4R {
			seq = append(seq, a.Addr)
		}
	}
	want := []uint32{g4.PWR_CR1, g4.TAMP_BKP4R, g4.PWR_CR1}
	if len(seq) != len(want) {
		t.Fatalf("stores %x", seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("stores %x", seq)
		}
	}
	if tr := regs.Trace(); tr[0].Op != sim.OpIRQOff || !cpu.IRQMasked {
		t.Fatal("interrupts not masked first")
	}
}

type declining struct{ asked int }

func (d *declining) TryHandoff() { d.asked++ }

func TestRequestAsksCooperatorFirst(t *testing.T) {
	coop := &declining{}
	h, _, _ := newHandoff(coop)
	sim.Run(h.Request)
	if coop.asked != 1 || !h.Pending() {
		t.Fatalf("asked %d times, pending %v", coop.asked, h.Pending())
	}
}
