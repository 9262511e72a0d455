// mini210 board bring-up daemon: publishes the board configuration, serves
// USB PHY power control on the bus and reports the selected LCD panel and
// board MAC address.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinygo.org/x/drivers"

	"mini210/board"
	"mini210/bus"
	"mini210/drivers/at24c08"
	"mini210/drivers/usbphy"
	"mini210/internal/platform"
	"mini210/services/config"
	physervice "mini210/services/usbphy"
	"mini210/types"
	"mini210/x/logx"
)

func main() {
	sim := flag.Bool("sim", false, "use in-memory registers and skip I2C")
	device := flag.String("device", "mini210", "embedded config to publish")
	jsonLogs := flag.Bool("json", false, "JSON log output")
	verbose := flag.Bool("v", false, "debug logging and bus monitor")
	flag.Parse()

	if *jsonLogs {
		logx.SetJSON(os.Stderr)
	}
	if *verbose {
		logx.SetLevel(slog.LevelDebug)
	}
	log := logx.For(logx.ComponentBoard)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, *device)

	log.Info("booting", "machine", board.Name, "sim", *sim)

	params, err := board.ReadCmdline(log)
	if err != nil {
		log.Warn("no kernel command line", "err", err)
	}

	sys, phy, closeRegs, err := openRegs(*sim)
	if err != nil {
		log.Error("registers", "err", err)
		os.Exit(1)
	}
	defer closeRegs()

	tree := platform.Mini210Clocks(sys, board.RefClock, logx.For(logx.ComponentClock))
	seq := usbphy.New(usbphy.Config{Sys: sys, Phy: phy, Clocks: tree})

	b := bus.NewBus(16)
	if *verbose {
		monitor(ctx, b.NewConnection("monitor"), log)
	}

	boardConn := b.NewConnection("board")
	boardConn.Publish(boardConn.NewMessage(topicBoardInfo, types.Info{
		SchemaVersion: 1,
		Driver:        "mini210",
		Detail:        board.Describe(),
	}, true))

	physervice.New(b.NewConnection("usbphy"), seq).Start(ctx)
	go boardConfig(ctx, boardConn, params, *sim, log)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	<-ctx.Done()
	log.Info("shutting down")
	// Let services publish their stopped state.
	time.Sleep(50 * time.Millisecond)
}

var topicBoardInfo = bus.T("hal", "board", "info")

// eepromWait is how long boardConfig waits for config/eeprom before using
// the board's own I2C table.
const eepromWait = 2 * time.Second

func openRegs(sim bool) (sys, phy usbphy.Regs, closeFn func(), err error) {
	if sim {
		return platform.NewMemRegs(), platform.NewMemRegs(), func() {}, nil
	}
	s, err := platform.MapRegs(platform.PhysSysCon, platform.SysConSize)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := platform.MapRegs(platform.PhysHSPHY, platform.HSPHYSize)
	if err != nil {
		s.Close()
		return nil, nil, nil, err
	}
	return s, p, func() { p.Close(); s.Close() }, nil
}

// boardConfig applies the lcd and eeprom sections. Without an eeprom
// section the MAC is read from the EEPROM listed in board.I2CDevices.
func boardConfig(ctx context.Context, conn *bus.Connection, params board.Params, sim bool, log *slog.Logger) {
	lcdSub := conn.Subscribe(bus.T("config", "lcd"))
	eeSub := conn.Subscribe(bus.T("config", "eeprom"))
	defer conn.Disconnect()

	eeLog := logx.For(logx.ComponentEEPROM)
	fallback := time.After(eepromWait)
	mac := func(cfg types.EEPROMConfig, source string) {
		if sim {
			eeLog.Debug("skipped in sim mode")
			return
		}
		cfg, ok := eepromTarget(cfg)
		if !ok {
			eeLog.Warn("no eeprom fitted")
			return
		}
		i2c, err := platform.OpenI2C(cfg.Bus)
		if err != nil {
			eeLog.Warn("open bus", "err", err)
			return
		}
		defer i2c.Close()
		m, err := readMAC(i2c, cfg)
		if err != nil {
			eeLog.Warn("read mac", "bus", i2c.String(), "addr", cfg.Addr, "err", err)
			return
		}
		eeLog.Info("board mac", "mac", m, "source", source)
	}

	if params.LCD != nil {
		log.Info("lcd", "panel", params.LCD.Name, "source", "cmdline", "pixclock_ps", params.LCD.PixClockPS())
	}

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-lcdSub.Channel():
			cfg, ok := msg.Payload.(*types.LCDConfig)
			if !ok || params.LCD != nil {
				continue
			}
			p, ok := board.LookupPanel(cfg.Default)
			if !ok {
				log.Error("invalid lcd parameter", "lcd", cfg.Default, "source", "config")
				continue
			}
			log.Info("lcd", "panel", p.Name, "source", "config", "pixclock_ps", p.PixClockPS())

		case msg := <-eeSub.Channel():
			cfg, ok := msg.Payload.(*types.EEPROMConfig)
			if !ok {
				continue
			}
			fallback = nil
			mac(*cfg, "config")

		case <-fallback:
			fallback = nil
			mac(types.EEPROMConfig{}, "board")
		}
	}
}

// eepromTarget fills the bus and address of cfg from the board's I2C table
// when cfg leaves the address unset.
func eepromTarget(cfg types.EEPROMConfig) (types.EEPROMConfig, bool) {
	if cfg.Addr != 0 {
		return cfg, true
	}
	d, ok := board.LookupI2C("24c08")
	if !ok {
		return cfg, false
	}
	cfg.Bus, cfg.Addr = d.Bus, d.Addr
	return cfg, true
}

// readMAC reads the six-byte MAC address stored in the board EEPROM.
// An erased EEPROM reads all ones.
func readMAC(b drivers.I2C, cfg types.EEPROMConfig) (string, error) {
	dev := at24c08.New(b)
	dev.Configure(at24c08.Config{Address: cfg.Addr})
	var mac [6]byte
	if _, err := dev.ReadAt(mac[:], cfg.MACOffset); err != nil {
		return "", err
	}
	if mac == [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff} {
		return "", fmt.Errorf("mac area at %#x is erased", cfg.MACOffset)
	}
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5]), nil
}

// monitor logs every hal/ and config/ message at debug level.
func monitor(ctx context.Context, conn *bus.Connection, log *slog.Logger) {
	hal := conn.Subscribe(bus.T("hal", "#"))
	cfg := conn.Subscribe(bus.T("config", "#"))
	go func() {
		defer conn.Disconnect()
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-hal.Channel():
				log.Debug("bus", "topic", m.Topic.String(), "payload", m.Payload)
			case m := <-cfg.Channel():
				log.Debug("bus", "topic", m.Topic.String(), "payload", m.Payload)
			}
		}
	}()
}
