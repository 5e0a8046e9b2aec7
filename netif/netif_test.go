package netif

import (
	"net/netip"
	"testing"

	"heaterctl-go/errcode"
	"heaterctl-go/types"
)

type fakeRadio struct {
	apErr      error
	apAddr     netip.Addr
	staAddr    netip.Addr
	apDisabled bool

	joinSSID string
	joinPass string
	// statuses is consumed one per Status call, last value repeats.
	statuses []types.LinkStatus
}

func (f *fakeRadio) EnableAP(ssid string) error { return f.apErr }
func (f *fakeRadio) DisableAP() error           { f.apDisabled = true; return nil }
func (f *fakeRadio) BeginJoin(ssid, pass string) error {
	f.joinSSID, f.joinPass = ssid, pass
	return nil
}
func (f *fakeRadio) Status() types.LinkStatus {
	if len(f.statuses) == 0 {
		return types.LinkIdle
	}
	s := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return s
}
func (f *fakeRadio) Disconnect() error      { return nil }
func (f *fakeRadio) Scan() ([]string, error) { return []string{"one"}, nil }
func (f *fakeRadio) STAAddr() netip.Addr    { return f.staAddr }
func (f *fakeRadio) APAddr() netip.Addr     { return f.apAddr }
func (f *fakeRadio) HardwareAddr() [6]byte  { return [6]byte{} }

type fakeClk struct{ ms uint32 }

func (f *fakeClk) Millis() uint32    { return f.ms }
func (f *fakeClk) SleepMs(ms uint32) { f.ms += ms }

type fakeCreds struct{ ssid, pass string }

func (f *fakeCreds) WifiSSID() string     { return f.ssid }
func (f *fakeCreds) WifiPassword() string { return f.pass }

func TestStartAPWithoutAddressFails(t *testing.T) {
	radio := &fakeRadio{} // zero APAddr
	i := New(radio, &fakeCreds{}, &fakeClk{}, nil)

	err := i.StartAP("Heater-AB12")
	if errcode.Of(err) != errcode.APStartFailed {
		t.Fatalf("err = %v, want APStartFailed", err)
	}
	if !radio.apDisabled {
		t.Fatal("AP not torn down after failed start")
	}
	if i.APUp() {
		t.Fatal("APUp true after failure")
	}
}

func TestStartAPSuccess(t *testing.T) {
	radio := &fakeRadio{apAddr: netip.MustParseAddr("192.168.4.1")}
	i := New(radio, &fakeCreds{}, &fakeClk{}, nil)

	if err := i.StartAP("Heater-AB12"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !i.APUp() {
		t.Fatal("APUp false after start")
	}
}

func TestConnectSTANoCredentials(t *testing.T) {
	i := New(&fakeRadio{}, &fakeCreds{}, &fakeClk{}, nil)
	if err := i.ConnectSTA(); errcode.Of(err) != errcode.NoCredentials {
		t.Fatalf("err = %v, want NoCredentials", err)
	}
}

func TestConnectSTASuccessAfterPolling(t *testing.T) {
	radio := &fakeRadio{
		staAddr:  netip.MustParseAddr("10.0.0.9"),
		statuses: []types.LinkStatus{types.LinkConnecting, types.LinkConnecting, types.LinkUp},
	}
	clk := &fakeClk{}
	i := New(radio, &fakeCreds{ssid: "home", pass: "pw"}, clk, nil)

	if err := i.ConnectSTA(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if radio.joinSSID != "home" || radio.joinPass != "pw" {
		t.Fatalf("join args %q/%q", radio.joinSSID, radio.joinPass)
	}
	if clk.ms != 2*staPollIntervalMs {
		t.Fatalf("slept %dms, want %d", clk.ms, 2*staPollIntervalMs)
	}
}

func TestConnectSTATimesOut(t *testing.T) {
	radio := &fakeRadio{statuses: []types.LinkStatus{types.LinkConnecting}}
	clk := &fakeClk{}
	i := New(radio, &fakeCreds{ssid: "home"}, clk, nil)

	if err := i.ConnectSTA(); errcode.Of(err) != errcode.STATimeout {
		t.Fatalf("err = %v, want STATimeout", err)
	}
	if clk.ms < staConnectTimeoutMs {
		t.Fatalf("gave up after %dms", clk.ms)
	}
}

func TestConnectSTAFailedLink(t *testing.T) {
	radio := &fakeRadio{statuses: []types.LinkStatus{types.LinkConnecting, types.LinkFailed}}
	clk := &fakeClk{}
	i := New(radio, &fakeCreds{ssid: "home"}, clk, nil)

	if err := i.ConnectSTA(); errcode.Of(err) != errcode.STATimeout {
		t.Fatalf("err = %v, want STATimeout", err)
	}
	if clk.ms >= staConnectTimeoutMs {
		t.Fatal("waited out the full timeout on a hard failure")
	}
}

func TestIPAddressPreference(t *testing.T) {
	radio := &fakeRadio{}
	i := New(radio, &fakeCreds{}, &fakeClk{}, nil)

	if got := i.IPAddress(); got != netip.IPv4Unspecified() {
		t.Fatalf("idle ip = %s", got)
	}
	radio.apAddr = netip.MustParseAddr("192.168.4.1")
	if got := i.IPAddress(); got != radio.apAddr {
		t.Fatalf("ap ip = %s", got)
	}
	radio.staAddr = netip.MustParseAddr("10.0.0.9")
	if got := i.IPAddress(); got != radio.staAddr {
		t.Fatalf("sta preferred ip = %s", got)
	}
	if !i.HasIP() {
		t.Fatal("HasIP false with addresses present")
	}
}
