package sim

import (
	"encoding/binary"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Retained is a RAM window whose contents outlive a simulated reset. When
// opened from a file it also outlives the process, which is how g4sim carries
// a boot flag from one invocation to the next.
type Retained struct {
	base uint32
	buf  []byte
	mm   mmap.MMap
	f    *os.File
}

// NewRetained returns a heap-backed window of size bytes at base.
func NewRetained(base uint32, size int) *Retained {
	return &Retained{base: base, buf: make([]byte, size)}
}

// OpenRetained maps path (created and sized as needed) as a window of size
// bytes at base.
func OpenRetained(path string, base uint32, size int) (*Retained, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() != int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, err
		}
	}
	mm, err := mmap.MapRegion(f, size, mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Retained{base: base, buf: mm, mm: mm, f: f}, nil
}

// Base returns the first address of the window.
func (m *Retained) Base() uint32 { return m.base }

// Size returns the window length in bytes.
func (m *Retained) Size() int { return len(m.buf) }

// Close flushes and unmaps a file-backed window. It is a no-op otherwise.
func (m *Retained) Close() error {
	if m.mm == nil {
		return nil
	}
	if err := m.mm.Flush(); err != nil {
		return err
	}
	if err := m.mm.Unmap(); err != nil {
		return err
	}
	m.mm, m.buf = nil, nil
	return m.f.Close()
}

// Wipe zeroes the window, modelling loss of power.
func (m *Retained) Wipe() {
	for i := range m.buf {
		m.buf[i] = 0
	}
}

func (m *Retained) contains(addr uint32) bool {
	return addr >= m.base && uint64(addr)+4 <= uint64(m.base)+uint64(len(m.buf))
}

func (m *Retained) load(addr uint32) uint32 {
	off := addr - m.base
	return binary.LittleEndian.Uint32(m.buf[off : off+4])
}

func (m *Retained) store(addr uint32, v uint32) {
	off := addr - m.base
	binary.LittleEndian.PutUint32(m.buf[off:off+4], v)
}
