//go:build rp2040 || rp2350

package pico

import (
	"errors"
	"io"
	"net"

	"github.com/soypat/seqs/stacks"

	"heaterctl-go/types"
)

// TCPListener bridges the stack's blocking Accept to the cooperative
// TryAccept model through a goroutine and a channel.
type TCPListener struct {
	ln *stacks.TCPListener
	ch chan net.Conn
}

func (r *Radio) ListenTCP(port uint16) (types.Listener, error) {
	if r.stack == nil {
		return nil, errors.New("network stack not up")
	}
	ln, err := stacks.NewTCPListener(r.stack, stacks.TCPListenerConfig{
		MaxConnections: 3,
		ConnTxBufSize:  2048,
		ConnRxBufSize:  2048,
	})
	if err != nil {
		return nil, err
	}
	if err := ln.StartListening(port); err != nil {
		return nil, err
	}
	l := &TCPListener{ln: ln, ch: make(chan net.Conn, 3)}
	go l.acceptLoop()
	return l, nil
}

func (l *TCPListener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return
		}
		l.ch <- conn
	}
}

func (l *TCPListener) TryAccept() (io.ReadWriteCloser, error) {
	select {
	case conn := <-l.ch:
		return conn, nil
	default:
		return nil, nil
	}
}

func (l *TCPListener) Close() error {
	return l.ln.Close()
}

// ListenUDP is not wired on this board yet: the stack does not expose a
// server-side UDP socket. The captive DNS degrades to direct-IP access.
// TODO: bind port 53 through the stack's UDP layer once it exports one.
func (r *Radio) ListenUDP(port uint16) (types.PacketConn, error) {
	return nil, errors.New("udp sockets not supported")
}
