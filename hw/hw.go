// Package hw holds the capabilities the boot core needs from the chip: the
// memory-mapped register file and a handful of CPU operations.
//
// Both are passed explicitly. Firmware builds use hw/mmio; host builds and
// tests use hw/sim.
package hw

// Registers is exclusive ownership of the peripheral register file.
// Addresses are absolute bus addresses; all accesses are 32-bit.
type Registers interface {
	Load(addr uint32) uint32
	Store(addr uint32, v uint32)
}

// CPU exposes the processor operations the handoff paths need.
//
// SystemReset and Jump do not return on hardware.
type CPU interface {
	DisableInterrupts()
	SystemReset()
	// Jump loads sp into the main stack pointer and branches to pc.
	Jump(sp, pc uint32)
}

// SetBits ORs bits into the register at addr.
func SetBits(r Registers, addr, bits uint32) {
	r.Store(addr, r.Load(addr)|bits)
}

// ClearBits clears bits in the register at addr.
func ClearBits(r Registers, addr, bits uint32) {
	r.Store(addr, r.Load(addr)&^bits)
}

// HasBits reports whether every bit in bits is set at addr.
func HasBits(r Registers, addr, bits uint32) bool {
	return r.Load(addr)&bits == bits
}

// Field reads (reg & mask) at addr.
func Field(r Registers, addr, mask uint32) uint32 {
	return r.Load(addr) & mask
}

// Load64 reads a little-endian 64-bit word as two 32-bit accesses.
func Load64(r Registers, addr uint32) uint64 {
	lo := r.Load(addr)
	hi := r.Load(addr + 4)
	return uint64(hi)<<32 | uint64(lo)
}

// Store64 writes a little-endian 64-bit word as two 32-bit accesses.
func Store64(r Registers, addr uint32, v uint64) {
	r.Store(addr, uint32(v))
	r.Store(addr+4, uint32(v>>32))
}
