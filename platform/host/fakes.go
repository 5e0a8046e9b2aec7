//go:build !rp2040 && !rp2350

package host

import (
	"bytes"
	"image/color"
	"io"
	"net/netip"

	"heaterctl-go/types"
)

// Fakes for the hardware-facing interfaces. They double as the simulator
// backend for host runs and as fixtures for the lifecycle tests.

type FakeStrip struct {
	Writes []color.RGBA
}

func (f *FakeStrip) WriteColor(c color.RGBA) error {
	f.Writes = append(f.Writes, c)
	return nil
}

func (f *FakeStrip) Last() color.RGBA {
	if len(f.Writes) == 0 {
		return color.RGBA{}
	}
	return f.Writes[len(f.Writes)-1]
}

type FakeDisplay struct {
	ConfigureErr error
	Splash       [2]string
	Lines        map[int]string
	Flushes      int
}

func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{Lines: map[int]string{}}
}

func (f *FakeDisplay) Configure() error { return f.ConfigureErr }
func (f *FakeDisplay) Clear()           { f.Lines = map[int]string{} }
func (f *FakeDisplay) PrintLine(row int, text string) {
	f.Lines[row] = text
}
func (f *FakeDisplay) Flush() error { f.Flushes++; return nil }
func (f *FakeDisplay) PaintSplash(title, sub string) error {
	f.Splash = [2]string{title, sub}
	return nil
}

type FakeRadio struct {
	APSSID      string
	APEnableErr error
	APAddress   netip.Addr
	STAAddress  netip.Addr
	Mac         [6]byte

	JoinSSID string
	JoinPass string
	JoinErr  error
	// LinkPlan is consumed one status per call; the last entry repeats.
	LinkPlan []types.LinkStatus

	APOn         bool
	Disconnected bool
	ScanResult   []string
}

func (f *FakeRadio) EnableAP(ssid string) error {
	if f.APEnableErr != nil {
		return f.APEnableErr
	}
	f.APSSID = ssid
	f.APOn = true
	return nil
}

func (f *FakeRadio) DisableAP() error { f.APOn = false; return nil }

func (f *FakeRadio) BeginJoin(ssid, pass string) error {
	f.JoinSSID, f.JoinPass = ssid, pass
	return f.JoinErr
}

func (f *FakeRadio) Status() types.LinkStatus {
	if len(f.LinkPlan) == 0 {
		return types.LinkIdle
	}
	s := f.LinkPlan[0]
	if len(f.LinkPlan) > 1 {
		f.LinkPlan = f.LinkPlan[1:]
	}
	return s
}

func (f *FakeRadio) Disconnect() error { f.Disconnected = true; return nil }

func (f *FakeRadio) Scan() ([]string, error) { return f.ScanResult, nil }

func (f *FakeRadio) STAAddr() netip.Addr {
	return f.STAAddress
}

func (f *FakeRadio) APAddr() netip.Addr {
	if !f.APOn {
		return netip.Addr{}
	}
	return f.APAddress
}

func (f *FakeRadio) HardwareAddr() [6]byte { return f.Mac }

type FakeButton struct {
	Down bool
}

func (f *FakeButton) Pressed() bool { return f.Down }

// FakeSystem is a manually advanced clock. SleepMs moves time forward so
// blocking waits terminate in tests.
type FakeSystem struct {
	Ms        uint32
	Restarted bool
	Reason    types.ResetReason
}

func (f *FakeSystem) Millis() uint32                 { return f.Ms }
func (f *FakeSystem) SleepMs(ms uint32)              { f.Ms += ms }
func (f *FakeSystem) Restart()                       { f.Restarted = true }
func (f *FakeSystem) ResetReason() types.ResetReason { return f.Reason }

type FakeSerial struct {
	Pending []byte
	Out     bytes.Buffer
}

func (f *FakeSerial) Buffered() int { return len(f.Pending) }

func (f *FakeSerial) ReadByte() (byte, error) {
	b := f.Pending[0]
	f.Pending = f.Pending[1:]
	return b, nil
}

func (f *FakeSerial) Write(p []byte) (int, error) { return f.Out.Write(p) }

func (f *FakeSerial) Feed(s string) { f.Pending = append(f.Pending, s...) }

type FakeOTA struct {
	Hostname string
	Begun    bool
	Handled  int
	Stopped  bool
	BeginErr error
}

func (f *FakeOTA) SetHostname(n string) { f.Hostname = n }

func (f *FakeOTA) Begin(types.OTACallbacks) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	f.Begun = true
	return nil
}

func (f *FakeOTA) Handle() { f.Handled++ }
func (f *FakeOTA) Stop()   { f.Begun = false; f.Stopped = true }

type FakeMDNS struct {
	Instance string
	Port     int
	Stopped  bool
}

func (f *FakeMDNS) Announce(instance string, port int, txt []string) error {
	f.Instance = instance
	f.Port = port
	f.Stopped = false
	return nil
}

func (f *FakeMDNS) Stop() { f.Stopped = true }

// FakeListener queues connections for TryAccept.
type FakeListener struct {
	Pending []io.ReadWriteCloser
	Closed  bool
}

func (f *FakeListener) TryAccept() (io.ReadWriteCloser, error) {
	if len(f.Pending) == 0 {
		return nil, nil
	}
	c := f.Pending[0]
	f.Pending = f.Pending[1:]
	return c, nil
}

func (f *FakeListener) Close() error { f.Closed = true; return nil }

// FakePacketConn queues datagrams for TryReadFrom and records replies.
type FakePacketConn struct {
	Inbound [][]byte
	Sent    [][]byte
	Closed  bool
}

func (f *FakePacketConn) TryReadFrom(buf []byte) (int, netip.AddrPort, error) {
	if len(f.Inbound) == 0 {
		return 0, netip.AddrPort{}, nil
	}
	pkt := f.Inbound[0]
	f.Inbound = f.Inbound[1:]
	return copy(buf, pkt), netip.MustParseAddrPort("192.168.4.2:40000"), nil
}

func (f *FakePacketConn) WriteTo(buf []byte, to netip.AddrPort) (int, error) {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.Sent = append(f.Sent, cp)
	return len(buf), nil
}

func (f *FakePacketConn) Close() error { f.Closed = true; return nil }
