//go:build linux

package platform

import (
	"fmt"

	"periph.io/x/host/v3/pmem"

	"mini210/errcode"
)

// MMIORegs is a window of physical registers mapped through /dev/mem.
type MMIORegs struct {
	view  *pmem.View
	words []uint32
	phys  uint64
}

// MapRegs maps size bytes of physical memory starting at phys. Needs root.
func MapRegs(phys uint64, size int) (*MMIORegs, error) {
	v, err := pmem.Map(phys, size)
	if err != nil {
		return nil, errcode.Wrap(errcode.MapFailed, "platform.map_regs", err)
	}
	return &MMIORegs{view: v, words: v.Uint32(), phys: phys}, nil
}

func (r *MMIORegs) Read32(off uint32) uint32 {
	return r.words[r.index(off)]
}

func (r *MMIORegs) Write32(off, v uint32) {
	r.words[r.index(off)] = v
}

func (r *MMIORegs) Close() error { return r.view.Close() }

// index panics on a misaligned or out-of-window offset; those are wiring bugs.
func (r *MMIORegs) index(off uint32) int {
	if off&3 != 0 || int(off/4) >= len(r.words) {
		panic(errcode.New(errcode.BadOffset, "platform.mmio",
			fmt.Sprintf("offset %#x outside register window at %#x", off, r.phys)))
	}
	return int(off / 4)
}
