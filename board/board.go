// Package board holds the mini210 board description: which platform devices
// exist, their resources, and the small tables (LEDs, keys, LCD panels) the
// kernel drivers consume. It is data plus lookups; nothing here touches
// hardware.
package board

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/physic"

	"mini210/drivers/usbphy"
	"mini210/internal/platform"
	"mini210/types"
)

// Name is the machine name reported at boot.
const Name = "MINI210"

// RefClock is the rate of the XUSBXTI oscillator fitted on the board.
const RefClock = 24 * physic.MegaHertz

// ResourceKind tags a platform resource.
type ResourceKind uint8

const (
	ResMem ResourceKind = iota
	ResIRQ
)

// Resource is a MEM window or an IRQ line.
type Resource struct {
	Kind  ResourceKind
	Start uint64
	Size  uint64
	Flags string // e.g. "highlevel"
}

// Device is one platform device registered at machine init.
type Device struct {
	Name      string
	ID        int // -1 for a single instance
	Resources []Resource
}

// UsesPHY reports whether binding this device powers a USB PHY port. The
// name match in usbphy.ResolveInstance is too loose for this ("s3c-sdhci"
// contains "hci"), so the USB controllers are listed explicitly.
func (d Device) UsesPHY() bool {
	switch d.Name {
	case "s3c-hsotg", "s5p-ehci", "ohci-platform":
		return true
	}
	return false
}

// PHYInstance returns the PHY port this device binds, if any.
func (d Device) PHYInstance() (usbphy.Instance, bool) {
	if !d.UsesPHY() {
		return usbphy.Unknown, false
	}
	inst, err := usbphy.ResolveInstance(d.Name)
	return inst, err == nil
}

// Interrupt lines, numbered as VIC sources.
const (
	irqUSBHost = 55
	irqEINT7   = 7
)

const physSROMBank1 = 0x88000000

// Devices is the platform device list in registration order.
var Devices = []Device{
	{Name: "s3c-sdhci", ID: 0},
	{Name: "s3c-sdhci", ID: 1},
	{Name: "s3c-sdhci", ID: 2},
	{Name: "s3c-sdhci", ID: 3},
	{Name: "s3c2440-i2c", ID: 0},
	{Name: "s3c2440-i2c", ID: 1},
	{Name: "s3c2440-i2c", ID: 2},
	{Name: "s3c64xx-rtc", ID: -1},
	{Name: "s3c-hsotg", ID: -1, Resources: []Resource{
		{Kind: ResMem, Start: platform.PhysHSOTG, Size: 0x20000},
	}},
	{Name: "s3c2410-wdt", ID: -1},
	{Name: "s5p-ehci", ID: -1, Resources: []Resource{
		{Kind: ResMem, Start: platform.PhysEHCI, Size: 0x100},
		{Kind: ResIRQ, Start: irqUSBHost},
	}},
	{Name: "dm9000", ID: -1, Resources: []Resource{
		{Kind: ResMem, Start: physSROMBank1, Size: 1},
		{Kind: ResMem, Start: physSROMBank1 + 8, Size: 1},
		{Kind: ResIRQ, Start: irqEINT7, Size: 1, Flags: "highlevel"},
	}},
	{Name: "leds-gpio", ID: -1},
	{Name: "gpio-keys", ID: -1},
	{Name: "ohci-platform", ID: -1, Resources: []Resource{
		{Kind: ResMem, Start: platform.PhysOHCI, Size: 0x100},
		{Kind: ResIRQ, Start: irqUSBHost},
	}},
}

// USBDevices returns the devices whose bind/unbind drives the USB PHY.
func USBDevices() []Device {
	var out []Device
	for _, d := range Devices {
		if d.UsesPHY() {
			out = append(out, d)
		}
	}
	return out
}

// LookupDevice finds the first device with the given name.
func LookupDevice(name string) (Device, bool) {
	for _, d := range Devices {
		if d.Name == name {
			return d, true
		}
	}
	return Device{}, false
}

// I2CDevice is an entry of the I2C board info.
type I2CDevice struct {
	Bus  int
	Type string
	Addr uint16
}

// I2CDevices lists the I2C parts fitted on the board.
var I2CDevices = []I2CDevice{
	{Bus: 0, Type: "24c08", Addr: 0x50},
}

// LookupI2C returns the first fitted I2C part of the given type.
func LookupI2C(typ string) (I2CDevice, bool) {
	for _, d := range I2CDevices {
		if strings.EqualFold(d.Type, typ) {
			return d, true
		}
	}
	return I2CDevice{}, false
}

// LED is a GPIO LED. Pins are named as in the SoC manual.
type LED struct {
	Name      string
	Pin       string
	ActiveLow bool
	Trigger   string
}

var LEDs = []LED{
	{"mini210:green:led1", "GPJ2(0)", true, "heartbeat"},
	{"mini210:green:led2", "GPJ2(1)", true, "nand-disk"},
	{"mini210:green:led3", "GPJ2(2)", true, "mmc0"},
	{"mini210:green:led4", "GPJ2(3)", true, ""},
}

// Key is a GPIO button with its input event code.
type Key struct {
	Desc      string
	Pin       string
	Code      uint16
	ActiveLow bool
}

// Linux input event codes.
const (
	KeyEsc   = 1
	KeyEnter = 28
	KeyUp    = 103
	KeyDown  = 108
)

var Keys = []Key{
	{"button1", "GPH2(0)", KeyEsc, true},
	{"button2", "GPH2(1)", KeyEnter, true},
	{"button3", "GPH2(2)", KeyDown, true},
	{"button4", "GPH2(3)", KeyUp, true},
}

// UARTs are the hardware ports handed to the serial driver.
var UARTs = []int{0, 1, 2, 3}

// Describe summarises the board tables for hal/board/info.
func Describe() types.BoardInfo {
	info := types.BoardInfo{Machine: Name, RefHz: uint64(RefClock / physic.Hertz)}
	for _, l := range LEDs {
		info.LEDs = append(info.LEDs, l.Name+"@"+l.Pin)
	}
	for _, k := range Keys {
		info.Keys = append(info.Keys, fmt.Sprintf("%s@%s:%d", k.Desc, k.Pin, k.Code))
	}
	for _, n := range UARTs {
		info.UARTs = append(info.UARTs, fmt.Sprintf("ttySAC%d", n))
	}
	for _, d := range I2CDevices {
		info.I2C = append(info.I2C, fmt.Sprintf("%s@%d:%#02x", d.Type, d.Bus, d.Addr))
	}
	return info
}
