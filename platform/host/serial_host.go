//go:build !rp2040 && !rp2350

package host

import (
	"os"
)

// StdioSerial adapts stdin/stdout to the byte-at-a-time console interface.
// A reader goroutine feeds a channel so Buffered never blocks.
type StdioSerial struct {
	ch chan byte
}

func NewStdioSerial() *StdioSerial {
	s := &StdioSerial{ch: make(chan byte, 256)}
	go s.reader()
	return s
}

func (s *StdioSerial) reader() {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		for i := 0; i < n; i++ {
			s.ch <- buf[i]
		}
		if err != nil {
			return
		}
	}
}

func (s *StdioSerial) Buffered() int { return len(s.ch) }

func (s *StdioSerial) ReadByte() (byte, error) {
	return <-s.ch, nil
}

func (s *StdioSerial) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}
