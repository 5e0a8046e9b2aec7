//go:build !rp2040 && !rp2350

package host

import (
	"github.com/grandcat/zeroconf"
)

// ZeroconfMDNS announces the device over multicast DNS on the host.
type ZeroconfMDNS struct {
	server *zeroconf.Server
}

func NewMDNS() *ZeroconfMDNS {
	return &ZeroconfMDNS{}
}

func (m *ZeroconfMDNS) Announce(instance string, port int, txt []string) error {
	m.Stop()
	srv, err := zeroconf.Register(instance, "_http._tcp", "local.", port, txt, nil)
	if err != nil {
		return err
	}
	m.server = srv
	return nil
}

func (m *ZeroconfMDNS) Stop() {
	if m.server != nil {
		m.server.Shutdown()
		m.server = nil
	}
}
