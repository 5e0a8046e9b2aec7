//go:build !rp2040 && !rp2350

package host

import (
	"os"
	"time"

	"heaterctl-go/types"
)

// SysClock implements SystemControl with the host wall clock. Restart exits
// the process; the wrapping launcher script decides whether to relaunch.
type SysClock struct {
	start time.Time
}

func NewSysClock() *SysClock {
	return &SysClock{start: time.Now()}
}

func (s *SysClock) Millis() uint32 {
	return uint32(time.Since(s.start).Milliseconds())
}

func (s *SysClock) SleepMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (s *SysClock) Restart() {
	os.Exit(0)
}

func (s *SysClock) ResetReason() types.ResetReason {
	return types.ResetPowerOn
}
