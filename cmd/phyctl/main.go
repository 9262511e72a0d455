// cmd/phyctl/main.go
//
// phyctl drives the USB PHY power sequence from the command line:
//
//	phyctl [-sim] [-v] on|off|status <identifier>
//
// Without -sim it maps the SYSCON and HSPHY register blocks through
// /dev/mem and must run as root on the board.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"mini210/board"
	"mini210/drivers/usbphy"
	"mini210/internal/platform"
	"mini210/x/logx"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type target struct {
	sys, phy usbphy.Regs
	close    func()
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("phyctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sim := fs.Bool("sim", false, "run against in-memory registers")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: phyctl [-sim] [-v] on|off|status <identifier>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	cmd, id := fs.Arg(0), fs.Arg(1)

	logx.SetText(stderr)
	if *verbose {
		logx.SetLevel(slog.LevelDebug)
	}
	log := logx.For(logx.ComponentPlatform)

	var tg target
	if *sim {
		tg = target{sys: platform.NewMemRegs(), phy: platform.NewMemRegs(), close: func() {}}
	} else {
		var err error
		if tg, err = openHardware(); err != nil {
			log.Error("open", "err", err)
			return 1
		}
	}
	defer tg.close()

	tree := platform.Mini210Clocks(tg.sys, board.RefClock, logx.For(logx.ComponentClock))
	phy := usbphy.New(usbphy.Config{Sys: tg.sys, Phy: tg.phy, Clocks: tree})

	inst, err := usbphy.ResolveInstance(id)
	if err != nil {
		log.Error("resolve", "err", err)
		return 1
	}

	switch cmd {
	case "on":
		err = phy.Init(id)
	case "off":
		err = phy.Exit(id)
	case "status":
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		log.Error(cmd, "device", id, "err", err)
		return 1
	}

	st, err := phy.Status(inst)
	if err != nil {
		log.Error("status", "err", err)
		return 1
	}
	printStatus(stdout, id, st)
	return 0
}

func printStatus(w io.Writer, id string, st usbphy.Status) {
	fmt.Fprintf(w, "%s (%s): up=%t domain=%t powered=%t reset=%t common=%t ref=%s\n",
		id, st.Instance, st.Up(), st.DomainOn, st.PoweredUp, st.InReset, st.CommonOn, st.RefRate)
	names := [4]string{"SYSPWR", "UPHYPWR", "UPHYCLK", "URSTCON"}
	for i, v := range st.Raw {
		fmt.Fprintf(w, "  %-8s %#08x\n", names[i], v)
	}
}

// openHardware maps the register blocks after checking that we are on an
// ARMv7 kernel.
func openHardware() (target, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return target{}, err
	}
	if m := unix.ByteSliceToString(u.Machine[:]); !strings.HasPrefix(m, "armv7") {
		return target{}, fmt.Errorf("machine %q is not an S5PV210 (use -sim)", m)
	}

	sys, err := platform.MapRegs(platform.PhysSysCon, platform.SysConSize)
	if err != nil {
		return target{}, err
	}
	phy, err := platform.MapRegs(platform.PhysHSPHY, platform.HSPHYSize)
	if err != nil {
		sys.Close()
		return target{}, err
	}
	return target{sys: sys, phy: phy, close: func() {
		phy.Close()
		sys.Close()
	}}, nil
}
