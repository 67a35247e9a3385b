package boot

import (
	"g4boot/board"
	"g4boot/clock"
	"g4boot/hw"
)

// Startup is the power-on sequence.
type Startup struct {
	Regs    hw.Registers
	CPU     hw.CPU
	Wait    clock.Waiter
	Board   board.Board
	Handoff *Handoff
	// Scheduler runs once bring-up completes. It does not return on
	// hardware.
	Scheduler func()
	// OnState observes clock tree transitions.
	OnState func(clock.State)

	gate *clock.Gate
	tree *clock.Tree
}

// NewStartup wires a Startup for b with unbounded waits and the flash
// bootloader as cooperator.
func NewStartup(regs hw.Registers, cpu hw.CPU, b board.Board, sched func()) *Startup {
	gate := clock.NewGate(regs)
	coop := NewFlashBootloader(regs, cpu, b.Memory)
	return &Startup{
		Regs:      regs,
		CPU:       cpu,
		Wait:      clock.Spin{},
		Board:     b,
		Handoff:   NewHandoff(regs, cpu, gate, b.Memory, coop),
		Scheduler: sched,
		gate:      gate,
	}
}

// Run checks for a pending bootloader request, then undoes whatever clock
// setup a bootloader left behind, brings up the clock tree and enters the
// scheduler. No clock register is touched before the request check.
func (s *Startup) Run() {
	s.Handoff.CheckPending()

	clock.ResetStale(s.Regs, s.Wait)

	if s.gate == nil {
		s.gate = clock.NewGate(s.Regs)
	}
	s.tree = clock.NewTree(s.Regs, s.Wait, s.gate, s.Board.Clock)
	s.tree.OnState = s.OnState
	s.tree.Configure()

	if s.Scheduler != nil {
		s.Scheduler()
	}
}

// Gate returns the clock gate drivers should share once Run has started.
func (s *Startup) Gate() *clock.Gate { return s.gate }

// Tree returns the clock tree after Run, or nil.
func (s *Startup) Tree() *clock.Tree { return s.tree }
