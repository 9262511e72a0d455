package main

import (
	"errors"
	"testing"

	"mini210/types"
)

type romBus struct {
	mem  [1024]byte
	addr uint16
}

func (r *romBus) Tx(addr uint16, w, rd []byte) error {
	if addr&^3 != r.addr {
		return errors.New("nack")
	}
	base := int(addr&3)<<8 | int(w[0])
	copy(rd, r.mem[base:])
	return nil
}

func TestReadMAC(t *testing.T) {
	bus := &romBus{addr: 0x50}
	copy(bus.mem[0x100:], []byte{0x00, 0x22, 0x12, 0x34, 0xab, 0xcd})

	mac, err := readMAC(bus, types.EEPROMConfig{Addr: 0x50, MACOffset: 0x100})
	if err != nil {
		t.Fatalf("readMAC: %v", err)
	}
	if mac != "00:22:12:34:ab:cd" {
		t.Fatalf("mac = %s", mac)
	}
}

func TestReadMACErased(t *testing.T) {
	bus := &romBus{addr: 0x50}
	for i := range bus.mem {
		bus.mem[i] = 0xff
	}
	if _, err := readMAC(bus, types.EEPROMConfig{Addr: 0x50}); err == nil {
		t.Fatal("expected error for erased eeprom")
	}
}

func TestReadMACWrongAddress(t *testing.T) {
	bus := &romBus{addr: 0x50}
	if _, err := readMAC(bus, types.EEPROMConfig{Addr: 0x54}); err == nil {
		t.Fatal("expected bus error")
	}
}

func TestEEPROMTargetDefaultsToBoardTable(t *testing.T) {
	cfg, ok := eepromTarget(types.EEPROMConfig{MACOffset: 0x10})
	if !ok || cfg.Bus != 0 || cfg.Addr != 0x50 || cfg.MACOffset != 0x10 {
		t.Fatalf("eepromTarget = %+v, %v", cfg, ok)
	}

	cfg, ok = eepromTarget(types.EEPROMConfig{Bus: 2, Addr: 0x54})
	if !ok || cfg.Bus != 2 || cfg.Addr != 0x54 {
		t.Fatalf("explicit address overridden: %+v", cfg)
	}
}

func TestReadMACFromBoardDefault(t *testing.T) {
	bus := &romBus{addr: 0x50}
	copy(bus.mem[:], []byte{0x00, 0x22, 0x12, 0x34, 0xab, 0xcd})

	cfg, _ := eepromTarget(types.EEPROMConfig{})
	mac, err := readMAC(bus, cfg)
	if err != nil || mac != "00:22:12:34:ab:cd" {
		t.Fatalf("readMAC = %q, %v", mac, err)
	}
}
