// Package at24c08 provides a driver for the AT24C08 1 KiB I2C EEPROM.
//
// The part answers on four consecutive addresses; address bits A9..A8 of
// the memory select which one, so a 256-byte block is the largest span a
// single transaction may touch:
//
//	d := at24c08.New(bus)
//	n, err := d.ReadAt(buf, 0x100)
//
// Writes are split on 16-byte page boundaries and each page is followed by
// the write-cycle wait. The device does not acknowledge while it is busy.
package at24c08

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Address is the base I2C address with A2 strapped low.
const Address = 0x50

const (
	Size      = 1024
	PageSize  = 16
	blockSize = 256
)

// WriteCycle is the datasheet maximum self-timed write time.
const WriteCycle = 5 * time.Millisecond

var ErrOutOfRange = errors.New("at24c08: access out of range")

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x50 if zero.
	Address uint16
	// WriteCycle defaults to 5 ms.
	WriteCycle time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Device wraps an I2C connection to an AT24C08.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cycle time.Duration
	sleep func(time.Duration)
	buf   [1 + PageSize]byte
}

// New creates a Device. It does not touch the bus.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
		cycle:   WriteCycle,
		sleep:   time.Sleep,
	}
}

// Configure applies cfg; zero fields keep their defaults.
func (d *Device) Configure(cfg Config) {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.WriteCycle > 0 {
		d.cycle = cfg.WriteCycle
	}
	if cfg.Sleep != nil {
		d.sleep = cfg.Sleep
	}
}

// Size returns the memory size in bytes.
func (d *Device) Size() int64 { return Size }

func checkRange(n int, off int64) error {
	if off < 0 || off > Size || int64(n) > Size-off {
		return ErrOutOfRange
	}
	return nil
}

// addr splits a memory offset into the I2C address and the word address.
func (d *Device) addr(off int64) (uint16, byte) {
	return d.Address | uint16(off>>8)&0x3, byte(off)
}

// ReadAt reads len(p) bytes from off. Requests that run past the end of
// the memory fail with ErrOutOfRange and transfer nothing.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	if err := checkRange(len(p), off); err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) {
		pos := off + int64(n)
		chunk := min(len(p)-n, blockSize-int(pos%blockSize))
		a, w := d.addr(pos)
		d.buf[0] = w
		if err := d.bus.Tx(a, d.buf[:1], p[n:n+chunk]); err != nil {
			return n, err
		}
		n += chunk
	}
	return n, nil
}

// WriteAt writes p at off, one page at a time, waiting out the write cycle
// after each page.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	if err := checkRange(len(p), off); err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) {
		pos := off + int64(n)
		chunk := min(len(p)-n, PageSize-int(pos%PageSize))
		a, w := d.addr(pos)
		d.buf[0] = w
		copy(d.buf[1:], p[n:n+chunk])
		if err := d.bus.Tx(a, d.buf[:1+chunk], nil); err != nil {
			return n, err
		}
		d.sleep(d.cycle)
		n += chunk
	}
	return n, nil
}
