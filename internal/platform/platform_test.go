package platform

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"

	"mini210/drivers/usbphy"
	"mini210/errcode"
	"mini210/x/logx"
)

func TestMemRegsReadWrite(t *testing.T) {
	r := NewMemRegs()
	if r.Read32(0x10) != 0 {
		t.Fatal("unwritten register should read zero")
	}
	r.Write32(0x10, 0xdead)
	r.Write32(0x4, 1)
	if r.Read32(0x10) != 0xdead {
		t.Fatalf("got %#x", r.Read32(0x10))
	}
	offs := r.Offsets()
	if len(offs) != 2 || offs[0] != 0x4 || offs[1] != 0x10 {
		t.Fatalf("offsets = %v", offs)
	}
}

func TestGateClockRefcount(t *testing.T) {
	sys := NewMemRegs()
	tree := Mini210Clocks(sys, 24*physic.MegaHertz, logx.Discard())
	mask := uint32(1) << GateBitUSBOTG

	a, err := tree.Get(usbphy.GateClockName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := tree.Get(usbphy.GateClockName)

	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if sys.Read32(RegClkGateIP1)&mask == 0 {
		t.Fatal("gate bit not set after first enable")
	}
	_ = b.Enable()
	a.Disable()
	if sys.Read32(RegClkGateIP1)&mask == 0 {
		t.Fatal("gate closed while another consumer holds it")
	}
	b.Disable()
	if sys.Read32(RegClkGateIP1)&mask != 0 {
		t.Fatal("gate still open after last disable")
	}

	// Extra disable is ignored.
	b.Disable()
	if refs, _ := tree.Counts(usbphy.GateClockName); refs != 0 {
		t.Fatalf("refs = %d", refs)
	}

	tree.Put(a)
	tree.Put(b)
	if _, users := tree.Counts(usbphy.GateClockName); users != 0 {
		t.Fatalf("users = %d", users)
	}
}

func TestGateLeavesNeighbourBits(t *testing.T) {
	sys := NewMemRegs()
	sys.Write32(RegClkGateIP1, 1<<GateBitUSBHost|1)
	tree := Mini210Clocks(sys, 24*physic.MegaHertz, logx.Discard())

	c, _ := tree.Get(usbphy.GateClockName)
	_ = c.Enable()
	c.Disable()
	tree.Put(c)

	if got := sys.Read32(RegClkGateIP1); got != 1<<GateBitUSBHost|1 {
		t.Fatalf("gate register = %#x", got)
	}
}

func TestGateOpenedElsewhereStaysOpen(t *testing.T) {
	sys, phy := NewMemRegs(), NewMemRegs()
	sys.Write32(RegClkGateIP1, 1<<GateBitUSBOTG)
	tree := Mini210Clocks(sys, 24*physic.MegaHertz, logx.Discard())
	p := usbphy.New(usbphy.Config{
		Sys:    sys,
		Phy:    phy,
		Clocks: tree,
		Delay:  func(time.Duration) {},
		Logger: logx.Discard(),
	})

	if _, err := p.Status(usbphy.Device); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := sys.Read32(RegClkGateIP1); got != 1<<GateBitUSBOTG {
		t.Fatalf("gate register after Status = %#x", got)
	}
	if err := p.Init("s3c-hsotg"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Exit("s3c-hsotg"); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if got := sys.Read32(RegClkGateIP1); got != 1<<GateBitUSBOTG {
		t.Fatalf("gate register after Init/Exit = %#x", got)
	}
	if refs, users := tree.Counts(usbphy.GateClockName); refs != 0 || users != 0 {
		t.Fatalf("refs=%d users=%d", refs, users)
	}

	// Once the other owner has closed it, our own enable owns the bit again.
	sys.Write32(RegClkGateIP1, 0)
	if _, err := p.Status(usbphy.Device); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := sys.Read32(RegClkGateIP1); got != 0 {
		t.Fatalf("gate left open = %#x", got)
	}
}

func TestClockTreeErrors(t *testing.T) {
	tree := Mini210Clocks(NewMemRegs(), 24*physic.MegaHertz, logx.Discard())
	if _, err := tree.Get("hclk_msys"); !errors.Is(err, errcode.ClockUnavailable) {
		t.Fatalf("expected clock_unavailable, got %v", err)
	}

	busy := errors.New("busy")
	tree.SetEnableError(usbphy.GateClockName, busy)
	c, _ := tree.Get(usbphy.GateClockName)
	if err := c.Enable(); err != busy {
		t.Fatalf("expected injected error, got %v", err)
	}
	tree.Put(c)
}

func TestSequencerOverClockTree(t *testing.T) {
	sys, phy := NewMemRegs(), NewMemRegs()
	tree := Mini210Clocks(sys, 48*physic.MegaHertz, logx.Discard())
	p := usbphy.New(usbphy.Config{
		Sys:    sys,
		Phy:    phy,
		Clocks: tree,
		Delay:  func(time.Duration) {},
		Logger: logx.Discard(),
	})

	if err := p.Init("ohci-platform"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	st, err := p.Status(usbphy.Host)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Up() || st.RefRate != 48*physic.MegaHertz {
		t.Fatalf("unexpected status %+v", st)
	}
	if sys.Read32(RegClkGateIP1) != 0 {
		t.Fatal("gate left open after sequence")
	}
	for _, name := range []string{usbphy.GateClockName, usbphy.RefClockName} {
		if refs, users := tree.Counts(name); refs != 0 || users != 0 {
			t.Fatalf("%s leaked: refs=%d users=%d", name, refs, users)
		}
	}
}
