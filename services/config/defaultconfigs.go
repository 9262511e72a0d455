package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgMini210 = `{
  "usbphy": {
    "autostart": ["s5p-ehci", "ohci-platform"]
  },
  "lcd": {
    "default": "s70"
  },
  "eeprom": {
    "bus": 0,
    "addr": 80,
    "mac_offset": 0
  }
}`

var embeddedConfigs = map[string][]byte{
	"mini210": []byte(cfgMini210),
}
