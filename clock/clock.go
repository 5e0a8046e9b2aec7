// Package clock wraps the platform millisecond counter into a 64-bit uptime
// and provides the deferred-reboot primitive.
package clock

import (
	"heaterctl-go/types"
)

// Clock accumulates 32-bit counter wraps into a 64-bit uptime. UptimeMs must
// be called at least once per counter period for wrap detection to hold; the
// main loop ticks far more often than that.
type Clock struct {
	sys   types.SystemControl
	base  uint32
	last  uint32
	wraps uint64
}

func New(sys types.SystemControl) *Clock {
	c := &Clock{sys: sys}
	c.base = sys.Millis()
	c.last = c.base
	return c
}

// Millis returns the raw 32-bit counter. Durations computed from it must use
// timex.ElapsedMs32 so wrap-around stays correct.
func (c *Clock) Millis() uint32 {
	return c.sys.Millis()
}

// UptimeMs returns milliseconds since New, monotonic across counter wraps.
func (c *Clock) UptimeMs() uint64 {
	now := c.sys.Millis()
	if now < c.last {
		c.wraps++
	}
	c.last = now
	return c.wraps<<32 + uint64(now) - uint64(c.base)
}

func (c *Clock) SleepMs(ms uint32) {
	c.sys.SleepMs(ms)
}

// ResetReason reports why the chip last restarted, as a short tag.
func (c *Clock) ResetReason() string {
	return c.sys.ResetReason().String()
}

// Reboot waits delayMs then restarts the chip. It does not return.
func (c *Clock) Reboot(delayMs uint32) {
	if delayMs > 0 {
		c.sys.SleepMs(delayMs)
	}
	c.sys.Restart()
}
