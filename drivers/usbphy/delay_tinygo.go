//go:build tinygo

package usbphy

import (
	"time"

	"tinygo.org/x/drivers/delay"
)

// Spin busy-waits for d using the cycle-counted TinyGo delay loop.
func Spin(d time.Duration) { delay.Sleep(d) }
