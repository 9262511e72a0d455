package types

// Board configuration supplied on the config/<section> topics.

type BoardConfig struct {
	USBPhy PhyConfig    `json:"usbphy"`
	LCD    LCDConfig    `json:"lcd"`
	EEPROM EEPROMConfig `json:"eeprom"`
}

// PhyConfig is published on "config/usbphy".
type PhyConfig struct {
	// Autostart lists device identifiers powered on at startup,
	// e.g. "s3c-hsotg", "s5p-ehci".
	Autostart []string `json:"autostart"`
}

// LCDConfig is published on "config/lcd".
type LCDConfig struct {
	Default string `json:"default"` // panel used when lcd= is absent
}

// EEPROMConfig is published on "config/eeprom".
type EEPROMConfig struct {
	Bus       int    `json:"bus"`
	Addr      uint16 `json:"addr"`
	MACOffset int64  `json:"mac_offset"`
}
