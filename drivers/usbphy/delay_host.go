//go:build !tinygo

package usbphy

import "time"

// Spin busy-waits for d.
func Spin(d time.Duration) {
	for start := time.Now(); time.Since(start) < d; {
	}
}
