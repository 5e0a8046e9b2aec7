// Package netif sequences the Wi-Fi radio between access-point and station
// roles and answers the "what is my address" question for everyone else.
package netif

import (
	"net/netip"

	"heaterctl-go/errcode"
	"heaterctl-go/logx"
	"heaterctl-go/types"
	"heaterctl-go/x/timex"
)

const (
	staConnectTimeoutMs = 15000
	staPollIntervalMs   = 200
)

// Clock is the sleep/poll time source for the blocking join wait.
type Clock interface {
	Millis() uint32
	SleepMs(ms uint32)
}

// Credentials supplies the stored station credentials.
type Credentials interface {
	WifiSSID() string
	WifiPassword() string
}

type Iface struct {
	radio types.Radio
	cfg   Credentials
	clk   Clock
	log   *logx.Logger

	apUp bool
}

func New(radio types.Radio, cfg Credentials, clk Clock, log *logx.Logger) *Iface {
	return &Iface{radio: radio, cfg: cfg, clk: clk, log: log}
}

// StartAP brings up an open access point. A radio that comes up without an
// address is treated as a start failure and torn back down.
func (i *Iface) StartAP(ssid string) error {
	if err := i.radio.EnableAP(ssid); err != nil {
		return errcode.Wrap(errcode.APStartFailed, err)
	}
	addr := i.radio.APAddr()
	if !addr.IsValid() || addr == netip.IPv4Unspecified() {
		i.radio.DisableAP()
		return errcode.APStartFailed
	}
	i.apUp = true
	i.log.Infof("netif: AP %q up at %s", ssid, addr.String())
	return nil
}

func (i *Iface) StopAP() error {
	if !i.apUp {
		return nil
	}
	i.apUp = false
	return i.radio.DisableAP()
}

func (i *Iface) APUp() bool { return i.apUp }

// ConnectSTA joins the configured network, blocking up to the connect
// timeout. The caller decides what the resulting states mean.
func (i *Iface) ConnectSTA() error {
	ssid := i.cfg.WifiSSID()
	if ssid == "" {
		return errcode.NoCredentials
	}
	i.log.Infof("netif: joining %q", ssid)
	if err := i.radio.BeginJoin(ssid, i.cfg.WifiPassword()); err != nil {
		return errcode.Wrap(errcode.STATimeout, err)
	}

	start := i.clk.Millis()
	for timex.ElapsedMs32(i.clk.Millis(), start) < staConnectTimeoutMs {
		switch i.radio.Status() {
		case types.LinkUp:
			i.log.Infof("netif: connected, ip %s", i.radio.STAAddr().String())
			return nil
		case types.LinkFailed:
			i.log.Warnf("netif: join to %q failed", ssid)
			return errcode.STATimeout
		}
		i.clk.SleepMs(staPollIntervalMs)
	}
	i.log.Warnf("netif: join to %q timed out", ssid)
	return errcode.STATimeout
}

func (i *Iface) Disconnect() error {
	return i.radio.Disconnect()
}

func (i *Iface) Scan() ([]string, error) {
	return i.radio.Scan()
}

// IPAddress prefers the station address, falls back to the AP address, and
// reports 0.0.0.0 when neither is up.
func (i *Iface) IPAddress() netip.Addr {
	if a := i.radio.STAAddr(); a.IsValid() && a != netip.IPv4Unspecified() {
		return a
	}
	if a := i.radio.APAddr(); a.IsValid() && a != netip.IPv4Unspecified() {
		return a
	}
	return netip.IPv4Unspecified()
}

// HasIP reports whether any interface carries a usable address.
func (i *Iface) HasIP() bool {
	return i.IPAddress() != netip.IPv4Unspecified()
}

func (i *Iface) HardwareAddr() [6]byte {
	return i.radio.HardwareAddr()
}
