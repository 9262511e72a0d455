package usbphy

// Offsets from the system-control base.
const (
	RegSysPower uint32 = 0xE80C // USB_PHY_CONTROL
)

// Offsets from the PHY-control base.
const (
	RegPhyPower uint32 = 0x0 // UPHYPWR
	RegPhyClock uint32 = 0x4 // UPHYCLK
	RegPhyReset uint32 = 0x8 // URSTCON
)

// SysPower bits.
const (
	sysPowerPhy0 uint32 = 1 << 0
	sysPowerPhy1 uint32 = 1 << 1
)

// PhyPower bits. Active-low: a set bit holds the block powered down.
const (
	pwrPhy0Suspend uint32 = 1 << 0
	pwrPhy0Power   uint32 = 1 << 3
	pwrPhy0OTG     uint32 = 1 << 4
	pwrPhy1Suspend uint32 = 1 << 6
	pwrPhy1Power   uint32 = 1 << 7

	pwrPhy0 = pwrPhy0Suspend | pwrPhy0Power | pwrPhy0OTG
	pwrPhy1 = pwrPhy1Suspend | pwrPhy1Power
)

// PhyClock bits.
const (
	clkSelMask    uint32 = 0x3 << 0
	clkSel48MHz   uint32 = 0x0 << 0
	clkSel24MHz   uint32 = 0x3 << 0
	clkSel12MHz   uint32 = 0x2 << 0
	clkPhy0Common uint32 = 1 << 4
)

// PhyReset bits.
const (
	rstPhy0        uint32 = 1 << 0
	rstOTGHLink    uint32 = 1 << 1
	rstOTGPhyLink  uint32 = 1 << 2
	rstPhy1All     uint32 = 1 << 3
	rstHostLinkAll uint32 = 1 << 4
)
