// Package logx holds the process-wide structured logger. Every record carries
// a component attribute so board bring-up output can be filtered per driver.
package logx

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	ComponentUSBPHY   Component = "usbphy"
	ComponentClock    Component = "clock"
	ComponentBoard    Component = "board"
	ComponentEEPROM   Component = "eeprom"
	ComponentService  Component = "service"
	ComponentPlatform Component = "platform"
)

var (
	level = new(slog.LevelVar)

	mu      sync.RWMutex
	current *slog.Logger
)

func init() {
	level.Set(slog.LevelInfo)
	current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the minimum level of the default logger.
func SetLevel(l slog.Level) { level.Set(l) }

// Level returns the current minimum level.
func Level() slog.Level { return level.Level() }

// SetLogger replaces the default logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// SetText switches the default logger to text output on w.
func SetText(w io.Writer) {
	SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// SetJSON switches the default logger to JSON output on w.
func SetJSON(w io.Writer) {
	SetLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// Default returns the default logger.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// For returns the default logger tagged with component c.
func For(c Component) *slog.Logger {
	return Default().With("component", string(c))
}

// Discard is a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
