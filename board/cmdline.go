package board

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/shlex"

	"mini210/x/logx"
)

// Params are the board-relevant kernel command line parameters.
type Params struct {
	// LCD is the selected panel, nil when lcd= is absent or names no panel.
	LCD *Panel
	// Args holds every key=value pair; bare flags map to "".
	Args map[string]string
}

// ParseCmdline splits a kernel command line and picks out lcd=<name>. An
// unknown panel is logged and leaves LCD nil; it is not an error.
func ParseCmdline(cmdline string, log *slog.Logger) (Params, error) {
	if log == nil {
		log = logx.For(logx.ComponentBoard)
	}
	words, err := shlex.Split(cmdline)
	if err != nil {
		return Params{}, err
	}

	p := Params{Args: make(map[string]string, len(words))}
	for _, w := range words {
		k, v, _ := strings.Cut(w, "=")
		p.Args[k] = v
		if k != "lcd" {
			continue
		}
		if panel, ok := LookupPanel(v); ok {
			p.LCD = &panel
		} else {
			p.LCD = nil
			log.Error("invalid lcd parameter", "lcd", v)
		}
	}
	return p, nil
}

// ReadCmdline parses /proc/cmdline.
func ReadCmdline(log *slog.Logger) (Params, error) {
	b, err := os.ReadFile("/proc/cmdline")
	if err != nil {
		return Params{}, err
	}
	return ParseCmdline(string(b), log)
}
