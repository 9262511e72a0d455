package types

// ------------------------
// USB PHY capability
// ------------------------

// PhyPower is the caller-side view of one PHY port.
type PhyPower string

const (
	PhyUnpowered PhyPower = "unpowered"
	PhyPowered   PhyPower = "powered"
	PhyError     PhyPower = "error"
)

// PhyState is published retained on hal/cap/usb/phy/<instance>/state.
type PhyState struct {
	Instance string   `json:"instance"` // "device" or "host"
	Power    PhyPower `json:"power"`
	Device   string   `json:"device,omitempty"` // identifier of the last request
	RefHz    uint64   `json:"ref_hz,omitempty"`
	Error    string   `json:"error,omitempty"`
	TS       int64    `json:"ts_ns"`
}

// PhyInfo is the Info.Detail of hal/cap/usb/phy/<instance>/info.
type PhyInfo struct {
	Instance string   `json:"instance"`
	Devices  []string `json:"devices"` // platform devices bound to this port
}

// PhyStatus is the reply to a "status" control.
type PhyStatus struct {
	Instance  string    `json:"instance"`
	DomainOn  bool      `json:"domain_on"`
	PoweredUp bool      `json:"powered_up"`
	InReset   bool      `json:"in_reset"`
	CommonOn  bool      `json:"common_on"`
	RefHz     uint64    `json:"ref_hz"`
	Raw       [4]uint32 `json:"raw"`
}
