package usbphy

import (
	"strings"

	"mini210/errcode"
)

// Instance selects one of the two PHY ports.
type Instance uint8

const (
	Unknown Instance = iota
	Device           // PHY0, shared with the HS-OTG controller
	Host             // PHY1, shared by EHCI and OHCI
)

func (i Instance) String() string {
	switch i {
	case Device:
		return "device"
	case Host:
		return "host"
	default:
		return "unknown"
	}
}

// ResolveInstance classifies a controller identifier such as "s3c-hsotg" or
// "ohci-platform". No hardware is touched.
func ResolveInstance(identifier string) (Instance, error) {
	switch {
	case strings.Contains(identifier, "otg"):
		return Device, nil
	case strings.Contains(identifier, "hci"):
		return Host, nil
	default:
		return Unknown, errcode.New(errcode.UnknownInstance, "usbphy.resolve", identifier)
	}
}

// profile is the fixed set of bit-groups owned by one instance.
type profile struct {
	sysPower  uint32
	commonOn  uint32
	powerDown uint32
	reset     uint32
}

// Host leaves its own common-on bit (UPHYCLK bit 7) alone.
var profiles = [...]profile{
	Device: {
		sysPower:  sysPowerPhy0,
		commonOn:  clkPhy0Common,
		powerDown: pwrPhy0,
		reset:     rstPhy0 | rstOTGHLink | rstOTGPhyLink,
	},
	Host: {
		sysPower:  sysPowerPhy1,
		commonOn:  0,
		powerDown: pwrPhy1,
		reset:     rstPhy1All | rstHostLinkAll,
	},
}

func (i Instance) profile() (profile, bool) {
	if i != Device && i != Host {
		return profile{}, false
	}
	return profiles[i], true
}
