package platform

import (
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/physic"

	"mini210/drivers/usbphy"
	"mini210/errcode"
	"mini210/x/logx"
)

// Clk is one node of a ClockTree. A gate clock owns a bit in a gate
// register; fixed clocks only report their rate.
type Clk struct {
	tree *ClockTree
	name string
	rate physic.Frequency

	regs usbphy.Regs // nil for fixed clocks
	off  uint32
	bit  uint

	refs      int  // enable count
	users     int  // outstanding Get handles
	preset    bool // gate bit was already set by another owner on the 0->1 edge
	enableErr error
}

func (c *Clk) Rate() physic.Frequency { return c.rate }

// Enable increments the enable count, opening the gate on the 0->1 edge. A
// gate some other owner already opened is left to that owner.
func (c *Clk) Enable() error {
	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()
	if c.enableErr != nil {
		return c.enableErr
	}
	if c.refs == 0 && c.regs != nil {
		v := c.regs.Read32(c.off)
		c.preset = v&(1<<c.bit) != 0
		if c.preset {
			t.log.Debug("gate already open", "clock", c.name)
		} else {
			c.regs.Write32(c.off, v|1<<c.bit)
			t.log.Debug("gate opened", "clock", c.name)
		}
	}
	c.refs++
	return nil
}

// Disable decrements the enable count, closing the gate on the 1->0 edge
// unless it was open before the first Enable.
func (c *Clk) Disable() {
	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()
	if c.refs == 0 {
		t.log.Warn("unbalanced clock disable", "clock", c.name)
		return
	}
	c.refs--
	if c.refs == 0 && c.regs != nil && !c.preset {
		c.regs.Write32(c.off, c.regs.Read32(c.off)&^(1<<c.bit))
		t.log.Debug("gate closed", "clock", c.name)
	}
}

// ClockTree is a small named clock registry implementing usbphy.ClockSource.
type ClockTree struct {
	mu     sync.Mutex
	clocks map[string]*Clk
	log    *slog.Logger
}

func NewClockTree(log *slog.Logger) *ClockTree {
	if log == nil {
		log = logx.For(logx.ComponentClock)
	}
	return &ClockTree{clocks: map[string]*Clk{}, log: log}
}

// AddFixed registers a fixed-rate clock.
func (t *ClockTree) AddFixed(name string, rate physic.Frequency) {
	t.mu.Lock()
	t.clocks[name] = &Clk{tree: t, name: name, rate: rate}
	t.mu.Unlock()
}

// AddGate registers a gate at bit of the register at off in regs.
func (t *ClockTree) AddGate(name string, rate physic.Frequency, regs usbphy.Regs, off uint32, bit uint) {
	t.mu.Lock()
	t.clocks[name] = &Clk{tree: t, name: name, rate: rate, regs: regs, off: off, bit: bit}
	t.mu.Unlock()
}

// SetEnableError makes Enable on name fail with err until cleared with nil.
func (t *ClockTree) SetEnableError(name string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.clocks[name]; ok {
		c.enableErr = err
	}
}

func (t *ClockTree) Get(name string) (usbphy.Clock, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.clocks[name]
	if !ok {
		return nil, errcode.New(errcode.ClockUnavailable, "clock.get", name)
	}
	c.users++
	return c, nil
}

func (t *ClockTree) Put(uc usbphy.Clock) {
	c, ok := uc.(*Clk)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if c.users == 0 {
		t.log.Warn("unbalanced clock put", "clock", c.name)
		return
	}
	c.users--
}

// Counts reports the enable count and outstanding handles of name.
func (t *ClockTree) Counts(name string) (refs, users int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.clocks[name]; ok {
		return c.refs, c.users
	}
	return 0, 0
}

// Mini210Clocks builds the clocks the USB PHY needs on the mini210. The gate
// bits live in sys (the SYSCON block).
func Mini210Clocks(sys usbphy.Regs, refRate physic.Frequency, log *slog.Logger) *ClockTree {
	t := NewClockTree(log)
	t.AddFixed(usbphy.RefClockName, refRate)
	t.AddGate(usbphy.GateClockName, 133*physic.MegaHertz, sys, RegClkGateIP1, GateBitUSBOTG)
	t.AddGate("usb-host", 133*physic.MegaHertz, sys, RegClkGateIP1, GateBitUSBHost)
	return t
}
