package platform

import (
	"sort"
	"sync"
)

// MemRegs is a sparse in-memory register file. Unwritten registers read as
// zero. It stands in for hardware in the simulator and in tests.
type MemRegs struct {
	mu sync.Mutex
	m  map[uint32]uint32
}

func NewMemRegs() *MemRegs { return &MemRegs{m: map[uint32]uint32{}} }

func (r *MemRegs) Read32(off uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[off]
}

func (r *MemRegs) Write32(off, v uint32) {
	r.mu.Lock()
	r.m[off] = v
	r.mu.Unlock()
}

// Offsets returns the written offsets in ascending order.
func (r *MemRegs) Offsets() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint32, 0, len(r.m))
	for off := range r.m {
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
