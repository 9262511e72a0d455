package usbphy

import (
	"periph.io/x/conn/v3/physic"

	"mini210/errcode"
)

// Clock names looked up by the sequencer.
const (
	GateClockName = "otg"     // gates register access to the PHY block
	RefClockName  = "xusbxti" // PHY reference oscillator, rate only
)

// Clock is a reference-counted clock handle.
type Clock interface {
	Enable() error
	Disable()
	Rate() physic.Frequency
}

// ClockSource resolves clocks by name. Every successful Get is paired with a Put.
type ClockSource interface {
	Get(name string) (Clock, error)
	Put(Clock)
}

// ClockSelect maps a reference clock rate to its UPHYCLK field value.
func ClockSelect(rate physic.Frequency) (uint32, error) {
	switch rate {
	case 12 * physic.MegaHertz:
		return clkSel12MHz, nil
	case 24 * physic.MegaHertz:
		return clkSel24MHz, nil
	case 48 * physic.MegaHertz:
		return clkSel48MHz, nil
	}
	return 0, errcode.New(errcode.UnsupportedClockRate, "usbphy.clock_select", rate.String())
}

// RateOf is the inverse of ClockSelect, used when decoding register state.
func RateOf(sel uint32) physic.Frequency {
	switch sel & clkSelMask {
	case clkSel12MHz:
		return 12 * physic.MegaHertz
	case clkSel24MHz:
		return 24 * physic.MegaHertz
	case clkSel48MHz:
		return 48 * physic.MegaHertz
	}
	return 0
}
