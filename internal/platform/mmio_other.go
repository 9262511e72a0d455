//go:build !linux

package platform

import "mini210/errcode"

// MMIORegs is unavailable off Linux.
type MMIORegs struct{}

func MapRegs(phys uint64, size int) (*MMIORegs, error) {
	return nil, errcode.New(errcode.MapFailed, "platform.map_regs", "physical memory mapping needs linux")
}

func (r *MMIORegs) Read32(off uint32) uint32 { return 0 }
func (r *MMIORegs) Write32(off, v uint32)    {}
func (r *MMIORegs) Close() error             { return nil }
