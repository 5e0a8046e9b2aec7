//go:build !rp2040 && !rp2350

package host

import (
	"net/netip"

	"heaterctl-go/types"
)

// SimRadio stands in for the Wi-Fi chip on the host. Joins always succeed
// and take the host's own address, so the full station path runs against
// the real host network.
type SimRadio struct {
	apOn    bool
	staOn   bool
	staAddr netip.Addr
	mac     [6]byte
}

func NewSimRadio() *SimRadio {
	return &SimRadio{mac: [6]byte{0x02, 0x00, 0x00, 0x00, 0xAB, 0xCD}}
}

func (r *SimRadio) EnableAP(ssid string) error {
	r.apOn = true
	return nil
}

func (r *SimRadio) DisableAP() error {
	r.apOn = false
	return nil
}

func (r *SimRadio) BeginJoin(ssid, pass string) error {
	r.staAddr = LocalAddr()
	r.staOn = r.staAddr.IsValid()
	return nil
}

func (r *SimRadio) Status() types.LinkStatus {
	if r.staOn {
		return types.LinkUp
	}
	return types.LinkFailed
}

func (r *SimRadio) Disconnect() error {
	r.staOn = false
	r.staAddr = netip.Addr{}
	return nil
}

func (r *SimRadio) Scan() ([]string, error) {
	return []string{"simulated-network"}, nil
}

func (r *SimRadio) STAAddr() netip.Addr {
	return r.staAddr
}

func (r *SimRadio) APAddr() netip.Addr {
	if !r.apOn {
		return netip.Addr{}
	}
	// The simulator has no real AP; reuse the host address so the portal
	// and captive DNS stay reachable.
	if a := LocalAddr(); a.IsValid() {
		return a
	}
	return netip.MustParseAddr("127.0.0.1")
}

func (r *SimRadio) HardwareAddr() [6]byte { return r.mac }
