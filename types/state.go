package types

// ------------------------
// Common service state (retained)
// ------------------------

type ServiceState struct {
	Level  string `json:"level"`  // "idle", "ready", "stopped"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ns"`  // publish Unix ns
}

// Link is the link/state reported for a capability.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

type CapabilityStatus struct {
	Link  Link   `json:"link"`
	TS    int64  `json:"ts_ns"`
	Error string `json:"error,omitempty"` // machine-readable short code
}

// ------------------------
// Generic replies
// ------------------------

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ------------------------
// Info envelope (retained)
// ------------------------

type Info struct {
	SchemaVersion int    `json:"schema_version"`
	Driver        string `json:"driver"`
	Detail        any    `json:"detail,omitempty"`
}

// BoardInfo is the Info.Detail of hal/board/info.
type BoardInfo struct {
	Machine string   `json:"machine"`
	RefHz   uint64   `json:"ref_hz"`
	LEDs    []string `json:"leds"`  // name@pin
	Keys    []string `json:"keys"`  // desc@pin:code
	UARTs   []string `json:"uarts"` // serial device nodes
	I2C     []string `json:"i2c"`   // type@bus:addr
}
