package usbphy

import (
	"periph.io/x/conn/v3/physic"

	"mini210/errcode"
)

// Status is a decoded snapshot of one port's register state.
type Status struct {
	Instance  Instance
	DomainOn  bool // system power-domain bit set
	PoweredUp bool // every power-down bit clear
	InReset   bool // any reset bit asserted
	CommonOn  bool
	RefRate   physic.Frequency // from the shared clock-select field
	Raw       [4]uint32        // SysPower, PhyPower, PhyClock, PhyReset
}

// Up reports whether the port is fully powered and out of reset.
func (s Status) Up() bool { return s.DomainOn && s.PoweredUp && !s.InReset }

// Status reads the registers for inst with the gating clock held. Nothing is
// written.
func (p *PHY) Status(inst Instance) (Status, error) {
	const op = "usbphy.status"
	prof, ok := inst.profile()
	if !ok {
		return Status{}, errcode.New(errcode.UnknownInstance, op, inst.String())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var st Status
	err := p.gated(op, func() error {
		sys := p.sys.Read32(RegSysPower)
		pwr := p.phy.Read32(RegPhyPower)
		clk := p.phy.Read32(RegPhyClock)
		rst := p.phy.Read32(RegPhyReset)
		st = Status{
			Instance:  inst,
			DomainOn:  sys&prof.sysPower != 0,
			PoweredUp: pwr&prof.powerDown == 0,
			InReset:   rst&prof.reset != 0,
			CommonOn:  prof.commonOn == 0 || clk&prof.commonOn != 0,
			RefRate:   RateOf(clk),
			Raw:       [4]uint32{sys, pwr, clk, rst},
		}
		return nil
	})
	return st, err
}
