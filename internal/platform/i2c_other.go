//go:build !linux

package platform

import "mini210/errcode"

// I2CBus is unavailable off Linux.
type I2CBus struct{}

func OpenI2C(num int) (*I2CBus, error) {
	return nil, errcode.New(errcode.MapFailed, "platform.open_i2c", "i2c-dev needs linux")
}

func (b *I2CBus) Tx(addr uint16, w, r []byte) error {
	return errcode.New(errcode.Unsupported, "platform.i2c_tx", "i2c-dev needs linux")
}

func (b *I2CBus) Close() error { return nil }

func (b *I2CBus) String() string { return "i2c-none" }
