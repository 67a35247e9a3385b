// Package sim is a host-side register file and CPU for tests and tooling.
//
// Registers records every access in order so tests can assert sequencing
// (e.g. that interrupts were masked before the last store, or that no clock
// register was touched before a jump). Terminal CPU actions unwind the
// caller with a typed panic value; Run converts them back into values.
package sim

import (
	"sync"
)

// Op classifies a trace entry.
type Op uint8

const (
	OpLoad Op = iota
	OpStore
	OpIRQOff
	OpReset
	OpJump
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpIRQOff:
		return "irq_off"
	case OpReset:
		return "reset"
	case OpJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Access is one trace entry. For OpJump, Addr is the stack pointer and Val
// the entry address.
type Access struct {
	Op   Op
	Addr uint32
	Val  uint32
}

// StoreHook rewrites a value on its way into a register. old is the current
// content; the returned value is what gets stored.
type StoreHook func(old, v uint32) uint32

// Peripheral models a register block with behaviour richer than a store
// hook, such as a FIFO or a bus controller. Offsets are relative to the base
// it was mapped at. Calls are made with the register file locked.
type Peripheral interface {
	Load(off uint32) uint32
	Store(off uint32, v uint32)
}

type mapping struct {
	base, size uint32
	p          Peripheral
}

// Registers implements hw.Registers over a sparse map.
type Registers struct {
	mu       sync.Mutex
	mem      map[uint32]uint32
	hooks    map[uint32]StoreHook
	stuck    map[uint32]uint32
	retained []*Retained
	devs     []mapping
	trace    []Access
}

// New returns an empty register file; unset addresses read as zero.
func New() *Registers {
	return &Registers{
		mem:   make(map[uint32]uint32),
		hooks: make(map[uint32]StoreHook),
		stuck: make(map[uint32]uint32),
	}
}

func (r *Registers) Load(addr uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.read(addr)
	r.trace = append(r.trace, Access{Op: OpLoad, Addr: addr, Val: v})
	return v
}

func (r *Registers) Store(addr uint32, v uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hooks[addr]; ok {
		v = h(r.read(addr), v)
	}
	r.write(addr, v)
	r.trace = append(r.trace, Access{Op: OpStore, Addr: addr, Val: v})
}

func (r *Registers) read(addr uint32) uint32 {
	for _, d := range r.devs {
		if addr-d.base < d.size {
			return d.p.Load(addr-d.base) &^ r.stuck[addr]
		}
	}
	for _, m := range r.retained {
		if m.contains(addr) {
			return m.load(addr) &^ r.stuck[addr]
		}
	}
	return r.mem[addr] &^ r.stuck[addr]
}

func (r *Registers) write(addr uint32, v uint32) {
	for _, d := range r.devs {
		if addr-d.base < d.size {
			d.p.Store(addr-d.base, v)
			return
		}
	}
	for _, m := range r.retained {
		if m.contains(addr) {
			m.store(addr, v)
			return
		}
	}
	r.mem[addr] = v
}

// Poke sets a register without tracing or hooks (test setup).
func (r *Registers) Poke(addr, v uint32) {
	r.mu.Lock()
	r.write(addr, v)
	r.mu.Unlock()
}

// Peek reads a register without tracing.
func (r *Registers) Peek(addr uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(addr)
}

// OnStore installs a hook for stores to addr, replacing any previous one.
func (r *Registers) OnStore(addr uint32, h StoreHook) {
	r.mu.Lock()
	r.hooks[addr] = h
	r.mu.Unlock()
}

// Stick forces the bits in mask to read as zero at addr, modelling a
// status flag that never asserts.
func (r *Registers) Stick(addr, mask uint32) {
	r.mu.Lock()
	r.stuck[addr] |= mask
	r.mu.Unlock()
}

// Attach routes accesses inside m's range to m.
func (r *Registers) Attach(m *Retained) {
	r.mu.Lock()
	r.retained = append(r.retained, m)
	r.mu.Unlock()
}

// Map routes accesses in [base, base+size) to p.
func (r *Registers) Map(base, size uint32, p Peripheral) {
	r.mu.Lock()
	r.devs = append(r.devs, mapping{base: base, size: size, p: p})
	r.mu.Unlock()
}

// Trace returns a copy of the access log.
func (r *Registers) Trace() []Access {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Access(nil), r.trace...)
}

// Stores returns only the stores from the access log.
func (r *Registers) Stores() []Access {
	var out []Access
	for _, a := range r.Trace() {
		if a.Op == OpStore {
			out = append(out, a)
		}
	}
	return out
}

// ResetTrace clears the access log.
func (r *Registers) ResetTrace() {
	r.mu.Lock()
	r.trace = r.trace[:0]
	r.mu.Unlock()
}

func (r *Registers) event(a Access) {
	r.mu.Lock()
	r.trace = append(r.trace, a)
	r.mu.Unlock()
}
