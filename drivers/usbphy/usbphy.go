// Package usbphy sequences power for the S5PV210 USB 2.0 PHY block.
//
// The block has two ports: PHY0 (device, shared with HS-OTG) and PHY1 (host,
// EHCI/OHCI). Both live behind the "otg" gating clock and share the same
// four registers, so every sequence runs under one lock with the gate held:
//
//	p := usbphy.New(usbphy.Config{Sys: sys, Phy: phy, Clocks: clocks})
//	err := p.Init("s3c-hsotg")   // bind / resume
//	err = p.Exit("s3c-hsotg")    // unbind / suspend
//
// The driver keeps no per-port state. Callers track whether a port is up.
package usbphy

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"mini210/errcode"
	"mini210/x/logx"
)

// SettleDelay is the minimum reset pulse width required by the analog block.
const SettleDelay = 10 * time.Microsecond

// Regs is a 32-bit register window addressed by byte offset.
type Regs interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
}

// Config wires the sequencer to its collaborators.
type Config struct {
	Sys    Regs // system-control block, holds RegSysPower
	Phy    Regs // PHY-control block
	Clocks ClockSource
	Delay  func(time.Duration) // defaults to Spin
	Logger *slog.Logger
}

// PHY is the power sequencer for both ports.
type PHY struct {
	mu     sync.Mutex
	sys    Regs
	phy    Regs
	clocks ClockSource
	delay  func(time.Duration)
	log    *slog.Logger
}

// New constructs a PHY. It does not touch the hardware.
func New(cfg Config) *PHY {
	p := &PHY{
		sys:    cfg.Sys,
		phy:    cfg.Phy,
		clocks: cfg.Clocks,
		delay:  cfg.Delay,
		log:    cfg.Logger,
	}
	if p.delay == nil {
		p.delay = Spin
	}
	if p.log == nil {
		p.log = logx.For(logx.ComponentUSBPHY)
	}
	return p
}

// Init powers up the port that serves identifier, using the rate of the
// reference clock.
func (p *PHY) Init(identifier string) error {
	inst, err := ResolveInstance(identifier)
	if err != nil {
		p.log.Error("failed to get phy type", "id", identifier)
		return err
	}
	rate, err := p.refRate()
	if err != nil {
		p.log.Error("failed to get reference clock", "clock", RefClockName, "err", err)
		return err
	}
	return p.PowerOn(inst, rate)
}

// Exit powers down the port that serves identifier.
func (p *PHY) Exit(identifier string) error {
	inst, err := ResolveInstance(identifier)
	if err != nil {
		p.log.Error("failed to get phy type", "id", identifier)
		return err
	}
	return p.PowerOff(inst)
}

// RefRate reports the reference clock rate without enabling it.
func (p *PHY) RefRate() (physic.Frequency, error) { return p.refRate() }

func (p *PHY) refRate() (physic.Frequency, error) {
	c, err := p.clocks.Get(RefClockName)
	if err != nil {
		return 0, errcode.Wrap(errcode.ClockUnavailable, "usbphy.ref_clock", err)
	}
	defer p.clocks.Put(c)
	return c.Rate(), nil
}

// PowerOn runs the power-up sequence for inst. On error after the gate is
// enabled the registers are left as far as the sequence got; only the gate
// is released.
func (p *PHY) PowerOn(inst Instance, rate physic.Frequency) error {
	const op = "usbphy.power_on"
	prof, ok := inst.profile()
	if !ok {
		return errcode.New(errcode.UnknownInstance, op, inst.String())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.gated(op, func() error {
		sel, err := ClockSelect(rate)
		if err != nil {
			p.log.Error("invalid reference clock", "rate", rate.String())
			return err
		}

		log := p.log.With("instance", inst.String())

		v := p.set(p.sys, RegSysPower, prof.sysPower)
		log.Debug("power domain on", "sys_power", hex(v))
		v = p.modify(p.phy, RegPhyClock, clkSelMask, sel|prof.commonOn)
		log.Debug("reference clock selected", "rate", rate.String(), "phy_clock", hex(v))
		v = p.clear(p.phy, RegPhyPower, prof.powerDown)
		log.Debug("analog block powered up", "phy_power", hex(v))

		v = p.set(p.phy, RegPhyReset, prof.reset)
		log.Debug("reset asserted", "phy_reset", hex(v))
		p.delay(SettleDelay)
		v = p.clear(p.phy, RegPhyReset, prof.reset)
		log.Debug("reset released", "phy_reset", hex(v))

		log.Debug("phy powered on")
		return nil
	})
}

// PowerOff runs the power-down sequence for inst. Clock select and reset
// registers are not touched.
func (p *PHY) PowerOff(inst Instance) error {
	const op = "usbphy.power_off"
	prof, ok := inst.profile()
	if !ok {
		return errcode.New(errcode.UnknownInstance, op, inst.String())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.gated(op, func() error {
		log := p.log.With("instance", inst.String())

		v := p.set(p.phy, RegPhyPower, prof.powerDown)
		log.Debug("analog block powered down", "phy_power", hex(v))
		v = p.clear(p.sys, RegSysPower, prof.sysPower)
		log.Debug("power domain off", "sys_power", hex(v))

		log.Debug("phy powered off")
		return nil
	})
}

// gated runs fn with the gating clock held. The clock is disabled and
// released on every path once it has been obtained.
func (p *PHY) gated(op string, fn func() error) error {
	gate, err := p.clocks.Get(GateClockName)
	if err != nil {
		p.log.Error("failed to get gating clock", "clock", GateClockName, "err", err)
		return errcode.Wrap(errcode.ClockUnavailable, op, err)
	}
	defer p.clocks.Put(gate)

	if err := gate.Enable(); err != nil {
		p.log.Error("could not enable gating clock", "clock", GateClockName, "err", err)
		return errcode.Wrap(errcode.ClockEnableFailed, op, err)
	}
	defer gate.Disable()

	return fn()
}

// set, clear and modify return the value written.
func (p *PHY) set(r Regs, off, bits uint32) uint32 {
	v := r.Read32(off) | bits
	r.Write32(off, v)
	return v
}

func (p *PHY) clear(r Regs, off, bits uint32) uint32 {
	v := r.Read32(off) &^ bits
	r.Write32(off, v)
	return v
}

func (p *PHY) modify(r Regs, off, mask, bits uint32) uint32 {
	v := r.Read32(off)&^mask | bits
	r.Write32(off, v)
	return v
}

func hex(v uint32) string { return fmt.Sprintf("%#08x", v) }
