//go:build rp2040 || rp2350

package pico

import (
	"context"
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

const consoleBaud = 115200

// ConsoleUART is the interactive console on UART0 (TX GP0, RX GP1). A reader
// goroutine blocks in RecvSomeContext and feeds a channel so the main loop's
// Buffered poll never blocks.
type ConsoleUART struct {
	uart *uartx.UART
	ch   chan byte
}

func NewConsoleUART() *ConsoleUART {
	u := uartx.UART0
	u.Configure(uartx.UARTConfig{
		BaudRate: consoleBaud,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	c := &ConsoleUART{uart: u, ch: make(chan byte, 256)}
	go c.reader()
	return c
}

func (c *ConsoleUART) reader() {
	buf := make([]byte, 64)
	for {
		n, err := c.uart.RecvSomeContext(context.Background(), buf)
		if err != nil {
			continue
		}
		for i := 0; i < n; i++ {
			c.ch <- buf[i]
		}
	}
}

func (c *ConsoleUART) Buffered() int { return len(c.ch) }

func (c *ConsoleUART) ReadByte() (byte, error) {
	return <-c.ch, nil
}

func (c *ConsoleUART) Write(p []byte) (int, error) {
	return c.uart.Write(p)
}
