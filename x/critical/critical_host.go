//go:build !rp2040 && !rp2350

package critical

import "sync"

// Section is a short scoped guard. On MCU builds it masks interrupts; on the
// host it degrades to a mutex so tests keep the same exclusion semantics.
type Section struct {
	mu sync.Mutex
}

type token struct{}

// Enter begins the guarded window. The returned token must be passed to Exit.
func (s *Section) Enter() any {
	s.mu.Lock()
	return token{}
}

// Exit ends the guarded window.
func (s *Section) Exit(any) {
	s.mu.Unlock()
}
