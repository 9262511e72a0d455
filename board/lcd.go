package board

import (
	"strings"

	"mini210/x/mathx"
)

// VIDCON polarity and output flags used by the panel table.
const (
	VIDCON0VidoutRGB  uint32 = 0x0 << 26
	VIDCON0PNRModeRGB uint32 = 0x0 << 17

	VIDCON1InvVCLK  uint32 = 1 << 7
	VIDCON1InvHSync uint32 = 1 << 6
	VIDCON1InvVSync uint32 = 1 << 5
)

// Timing is a display mode in pixels and lines.
type Timing struct {
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	XRes, YRes               uint32
	Refresh                  uint32 // Hz
}

// HTotal and VTotal include blanking.
func (t Timing) HTotal() uint32 { return t.LeftMargin + t.XRes + t.RightMargin + t.HSyncLen }
func (t Timing) VTotal() uint32 { return t.UpperMargin + t.YRes + t.LowerMargin + t.VSyncLen }

// Window is the framebuffer window configuration for a panel.
type Window struct {
	MaxBPP, DefaultBPP uint8
	XRes, YRes         uint32
	VirtualX, VirtualY uint32
}

// Panel is one selectable LCD.
type Panel struct {
	Name    string
	Timing  Timing
	Win     Window
	VIDCON0 uint32
	VIDCON1 uint32
}

// PixClockPS is the pixel clock period in picoseconds for the panel's
// refresh rate.
func (p Panel) PixClockPS() uint64 {
	div := uint64(p.Timing.HTotal()) * uint64(p.Timing.VTotal()) * uint64(p.Timing.Refresh)
	return mathx.RoundDiv(uint64(1_000_000_000_000), div)
}

func window(x, y uint32) Window {
	return Window{MaxBPP: 32, DefaultBPP: 24, XRes: x, YRes: y, VirtualX: x, VirtualY: y}
}

const (
	rgb       = VIDCON0VidoutRGB | VIDCON0PNRModeRGB
	invHVSync = VIDCON1InvHSync | VIDCON1InvVSync
)

// Panels lists the LCDs that can be selected with lcd=<name>.
var Panels = []Panel{
	{Name: "w50", Timing: Timing{40, 40, 20, 20, 48, 12, 800, 480, 61}, Win: window(800, 480), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "a70", Timing: Timing{40, 40, 29, 17, 48, 24, 800, 480, 65}, Win: window(800, 480), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "s70", Timing: Timing{36, 80, 15, 22, 10, 8, 800, 480, 65}, Win: window(800, 480), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "h43", Timing: Timing{40, 5, 8, 8, 2, 2, 480, 272, 65}, Win: window(480, 272), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "a97", Timing: Timing{12, 12, 8, 8, 4, 4, 1024, 768, 62}, Win: window(1024, 768), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "l80", Timing: Timing{53, 35, 29, 3, 48, 12, 640, 480, 65}, Win: window(640, 480), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "g10", Timing: Timing{99, 60, 34, 10, 1, 1, 640, 480, 65}, Win: window(640, 480), VIDCON0: rgb, VIDCON1: 0},
	{Name: "a56", Timing: Timing{134, 16, 11, 32, 10, 2, 640, 480, 65}, Win: window(640, 480), VIDCON0: rgb, VIDCON1: invHVSync | VIDCON1InvVCLK},
	{Name: "w101", Timing: Timing{40, 40, 10, 10, 120, 12, 1024, 600, 60}, Win: window(1024, 600), VIDCON0: rgb, VIDCON1: invHVSync},
	{Name: "w35", Timing: Timing{70, 4, 12, 4, 4, 4, 320, 240, 65}, Win: window(320, 240), VIDCON0: rgb, VIDCON1: VIDCON1InvVCLK},
}

// LookupPanel finds a panel by name, ignoring case.
func LookupPanel(name string) (Panel, bool) {
	for _, p := range Panels {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Panel{}, false
}
