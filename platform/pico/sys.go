//go:build rp2040 || rp2350

package pico

import (
	"machine"
	"time"

	"heaterctl-go/types"
)

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
	machine.CPUReset()
}

// ResetReason is not exposed by the RP2 runtime.
func (s *SysClock) ResetReason() types.ResetReason {
	return types.ResetUnknown
}
