// Package captivedns is a minimal DNS responder that resolves every name to
// one address, pointing captive-portal probes at the provisioning server.
package captivedns

import (
	"net/netip"

	"heaterctl-go/logx"
	"heaterctl-go/types"
)

const (
	Port       = 53
	answerTTL  = 60
	maxPacket  = 512
	headerSize = 12
)

type Server struct {
	conn   types.PacketConn
	answer netip.Addr
	log    *logx.Logger
	buf    [maxPacket]byte
}

func New(log *logx.Logger) *Server {
	return &Server{log: log}
}

// Start binds the UDP socket and records the answer address.
func (s *Server) Start(open func(port uint16) (types.PacketConn, error), answer netip.Addr) error {
	conn, err := open(Port)
	if err != nil {
		return err
	}
	s.conn = conn
	s.answer = answer
	s.log.Infof("dns: answering all queries with %s", answer.String())
	return nil
}

func (s *Server) Running() bool { return s.conn != nil }

func (s *Server) Stop() {
	if s.conn == nil {
		return
	}
	s.conn.Close()
	s.conn = nil
}

// Pump handles at most one pending query. Malformed packets are dropped.
func (s *Server) Pump() {
	if s.conn == nil {
		return
	}
	n, from, err := s.conn.TryReadFrom(s.buf[:])
	if err != nil {
		s.log.Warnf("dns: read failed: %v", err)
		return
	}
	if n == 0 {
		return
	}
	resp, ok := buildResponse(s.buf[:n], s.answer)
	if !ok {
		return
	}
	if _, err := s.conn.WriteTo(resp, from); err != nil {
		s.log.Warnf("dns: write failed: %v", err)
	}
}

// buildResponse echoes the query's first question and appends a single A
// record. Responses are built in a fresh slice because the query buffer is
// reused across pumps.
func buildResponse(query []byte, answer netip.Addr) ([]byte, bool) {
	if len(query) < headerSize {
		return nil, false
	}
	qr := query[2] & 0x80
	if qr != 0 {
		return nil, false // already a response
	}
	qdcount := uint16(query[4])<<8 | uint16(query[5])
	if qdcount == 0 {
		return nil, false
	}
	qend, ok := questionEnd(query)
	if !ok {
		return nil, false
	}

	resp := make([]byte, 0, qend+16)
	resp = append(resp, query[0], query[1]) // transaction id
	// Response, recursion available, echo the RD bit.
	resp = append(resp, 0x80|(query[2]&0x01), 0x80)
	resp = append(resp, 0, 1) // QDCOUNT
	resp = append(resp, 0, 1) // ANCOUNT
	resp = append(resp, 0, 0, 0, 0)
	resp = append(resp, query[headerSize:qend]...)

	ip := answer.As4()
	resp = append(resp,
		0xC0, 0x0C, // pointer to the question name
		0, 1, // type A
		0, 1, // class IN
		0, 0, 0, answerTTL,
		0, 4,
		ip[0], ip[1], ip[2], ip[3],
	)
	return resp, true
}

// questionEnd returns the offset one past the first question's QTYPE/QCLASS.
func questionEnd(query []byte) (int, bool) {
	i := headerSize
	for {
		if i >= len(query) {
			return 0, false
		}
		l := int(query[i])
		if l == 0 {
			i++
			break
		}
		if l >= 0xC0 { // compression never appears in a question from a stub
			return 0, false
		}
		i += 1 + l
	}
	i += 4 // QTYPE + QCLASS
	if i > len(query) {
		return 0, false
	}
	return i, true
}
