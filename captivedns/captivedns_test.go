package captivedns

import (
	"bytes"
	"net/netip"
	"testing"

	"heaterctl-go/types"
)

type fakeConn struct {
	inbound [][]byte
	sent    [][]byte
	sentTo  []netip.AddrPort
	closed  bool
}

func (f *fakeConn) TryReadFrom(buf []byte) (int, netip.AddrPort, error) {
	if len(f.inbound) == 0 {
		return 0, netip.AddrPort{}, nil
	}
	pkt := f.inbound[0]
	f.inbound = f.inbound[1:]
	n := copy(buf, pkt)
	return n, netip.MustParseAddrPort("192.168.4.2:5353"), nil
}

func (f *fakeConn) WriteTo(buf []byte, to netip.AddrPort) (int, error) {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.sent = append(f.sent, cp)
	f.sentTo = append(f.sentTo, to)
	return len(buf), nil
}

func (f *fakeConn) Close() error { f.closed = true; return nil }

// query builds a standard A query for the given dotted name.
func query(id uint16, name string) []byte {
	q := []byte{byte(id >> 8), byte(id), 0x01, 0x00, 0, 1, 0, 0, 0, 0, 0, 0}
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			q = append(q, byte(i-start))
			q = append(q, name[start:i]...)
			start = i + 1
		}
	}
	q = append(q, 0)          // root label
	q = append(q, 0, 1, 0, 1) // A IN
	return q
}

func startServer(t *testing.T, conn *fakeConn) *Server {
	t.Helper()
	s := New(nil)
	err := s.Start(func(port uint16) (types.PacketConn, error) {
		if port != 53 {
			t.Fatalf("bound port %d", port)
		}
		return conn, nil
	}, netip.MustParseAddr("192.168.4.1"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestAnswersEveryNameWithPortalAddress(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{query(0xBEEF, "connectivitycheck.gstatic.com")}}
	s := startServer(t, conn)

	s.Pump()
	if len(conn.sent) != 1 {
		t.Fatalf("sent %d responses", len(conn.sent))
	}
	resp := conn.sent[0]

	if resp[0] != 0xBE || resp[1] != 0xEF {
		t.Fatalf("transaction id not echoed: % x", resp[:2])
	}
	if resp[2]&0x80 == 0 {
		t.Fatal("QR bit not set")
	}
	if resp[7] != 1 {
		t.Fatalf("ANCOUNT = %d", resp[7])
	}
	// The answer sits right after the echoed question.
	tail := resp[len(resp)-16:]
	want := []byte{0xC0, 0x0C, 0, 1, 0, 1, 0, 0, 0, 60, 0, 4, 192, 168, 4, 1}
	if !bytes.Equal(tail, want) {
		t.Fatalf("answer = % x, want % x", tail, want)
	}
}

func TestPumpHandlesOnePacketPerCall(t *testing.T) {
	conn := &fakeConn{inbound: [][]byte{query(1, "a.example"), query(2, "b.example")}}
	s := startServer(t, conn)

	s.Pump()
	if len(conn.sent) != 1 {
		t.Fatalf("first pump sent %d", len(conn.sent))
	}
	s.Pump()
	if len(conn.sent) != 2 {
		t.Fatalf("second pump sent %d", len(conn.sent))
	}
	s.Pump() // idle
	if len(conn.sent) != 2 {
		t.Fatal("idle pump sent something")
	}
}

func TestMalformedPacketsDropped(t *testing.T) {
	trunc := query(7, "example.com")[:14]
	conn := &fakeConn{inbound: [][]byte{
		{0, 1, 2},          // shorter than a header
		trunc,              // truncated question
		{0, 1, 0x80, 0, 0, 1, 0, 0, 0, 0, 0, 0}, // a response, not a query
	}}
	s := startServer(t, conn)

	s.Pump()
	s.Pump()
	s.Pump()
	if len(conn.sent) != 0 {
		t.Fatalf("responded to malformed input: %d", len(conn.sent))
	}
}

func TestStopClosesSocket(t *testing.T) {
	conn := &fakeConn{}
	s := startServer(t, conn)
	if !s.Running() {
		t.Fatal("not running after start")
	}
	s.Stop()
	if !conn.closed || s.Running() {
		t.Fatal("stop did not close")
	}
	s.Pump() // must not panic
}
