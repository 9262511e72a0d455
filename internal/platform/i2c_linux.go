//go:build linux

package platform

import (
	"fmt"

	"periph.io/x/host/v3/sysfs"

	"mini210/errcode"
)

// I2CBus is an i2c-dev adapter. It satisfies drivers.I2C.
type I2CBus struct {
	*sysfs.I2C
	num int
}

// OpenI2C opens /dev/i2c-<num>.
func OpenI2C(num int) (*I2CBus, error) {
	b, err := sysfs.NewI2C(num)
	if err != nil {
		return nil, errcode.Wrap(errcode.MapFailed, "platform.open_i2c", err)
	}
	return &I2CBus{I2C: b, num: num}, nil
}

func (b *I2CBus) String() string { return fmt.Sprintf("i2c-%d", b.num) }
