//go:build !rp2040 && !rp2350

package host

import (
	"io"
	"net"
	"net/netip"
	"time"

	"heaterctl-go/types"
)

// pollDeadline makes blocking socket calls behave like non-blocking ones.
const pollDeadline = time.Millisecond

// TCPListener adapts net.TCPListener to the cooperative accept model.
type TCPListener struct {
	ln *net.TCPListener
}

func ListenTCP(port uint16) (types.Listener, error) {
	ln, err := net.ListenTCP("tcp", &net.TCPAddr{Port: int(port)})
	if err != nil {
		return nil, err
	}
	return &TCPListener{ln: ln}, nil
}

func (l *TCPListener) TryAccept() (io.ReadWriteCloser, error) {
	l.ln.SetDeadline(time.Now().Add(pollDeadline))
	conn, err := l.ln.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil
		}
		return nil, err
	}
	return conn, nil
}

func (l *TCPListener) Close() error { return l.ln.Close() }

// UDPConn adapts net.UDPConn to the one-datagram-per-tick pump.
type UDPConn struct {
	conn *net.UDPConn
}

func ListenUDP(port uint16) (types.PacketConn, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(port)})
	if err != nil {
		return nil, err
	}
	return &UDPConn{conn: conn}, nil
}

func (u *UDPConn) TryReadFrom(buf []byte) (int, netip.AddrPort, error) {
	u.conn.SetReadDeadline(time.Now().Add(pollDeadline))
	n, addr, err := u.conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, netip.AddrPort{}, nil
		}
		return 0, netip.AddrPort{}, err
	}
	return n, addr, nil
}

func (u *UDPConn) WriteTo(buf []byte, to netip.AddrPort) (int, error) {
	return u.conn.WriteToUDPAddrPort(buf, to)
}

func (u *UDPConn) Close() error { return u.conn.Close() }

// LocalAddr reports a non-loopback IPv4 address of the host, if any. The
// simulated radio uses it as its station address.
func LocalAddr() netip.Addr {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return netip.Addr{}
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			addr, _ := netip.AddrFromSlice(ip4)
			return addr
		}
	}
	return netip.Addr{}
}
