//go:build rp2040 || rp2350

package critical

import "runtime/interrupt"

// Section is a short scoped guard. On MCU builds it masks interrupts so
// 32-bit fields stay consistent against ISR-context access.
type Section struct{}

// Enter begins the guarded window. The returned token must be passed to Exit.
func (s *Section) Enter() any {
	return interrupt.Disable()
}

// Exit ends the guarded window.
func (s *Section) Exit(state any) {
	interrupt.Restore(state.(interrupt.State))
}
