package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestForTagsComponent(t *testing.T) {
	prev := Default()
	defer SetLogger(prev)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	For(ComponentUSBPHY).Info("power on", "instance", "device")

	out := buf.String()
	if !strings.Contains(out, "component=usbphy") || !strings.Contains(out, "instance=device") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	prev := Level()
	defer SetLevel(prev)

	SetLevel(slog.LevelDebug)
	if Level() != slog.LevelDebug {
		t.Fatalf("level = %v", Level())
	}
}
