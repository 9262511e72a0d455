package platform

// S5PV210 physical memory map (the parts the board glue touches).
const (
	PhysSysCon = 0xE0100000 // clock controller + system control
	PhysHSOTG  = 0xEC000000
	PhysHSPHY  = 0xEC100000
	PhysEHCI   = 0xEC200000
	PhysOHCI   = 0xEC300000

	SysConSize = 0x10000 // covers USB_PHY_CONTROL at 0xE80C
	HSPHYSize  = 0x1000
)

// Clock gate register in the SYSCON block.
const (
	RegClkGateIP1 uint32 = 0x464

	GateBitUSBOTG  = 16
	GateBitUSBHost = 17
)
