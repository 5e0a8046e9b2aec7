package console

import (
	"bytes"
	"strings"
	"testing"
)

type fakeSerial struct {
	data []byte
}

func (f *fakeSerial) Buffered() int { return len(f.data) }

func (f *fakeSerial) ReadByte() (byte, error) {
	b := f.data[0]
	f.data = f.data[1:]
	return b, nil
}

func (f *fakeSerial) Write(p []byte) (int, error) { return len(p), nil }

func (f *fakeSerial) feed(s string) { f.data = append(f.data, s...) }

func newConsole(echo bool) (*Console, *fakeSerial, *bytes.Buffer) {
	in := &fakeSerial{}
	var out bytes.Buffer
	return New(in, &out, echo, nil), in, &out
}

func TestLineAssemblyAndDispatch(t *testing.T) {
	c, in, _ := newConsole(false)
	var got []string
	c.RegisterCommand("set", "set a value", func(args []string) { got = args })

	in.feed("set key value\r\n")
	c.Tick()
	if len(got) != 2 || got[0] != "key" || got[1] != "value" {
		t.Fatalf("args = %v", got)
	}
}

func TestQuotedArguments(t *testing.T) {
	c, in, _ := newConsole(false)
	var got []string
	c.RegisterCommand("provision", "", func(args []string) { got = args })

	in.feed(`provision "my network" 'pass word'` + "\n")
	c.Tick()
	if len(got) != 2 || got[0] != "my network" || got[1] != "pass word" {
		t.Fatalf("args = %v", got)
	}
}

func TestParseErrorReported(t *testing.T) {
	c, in, out := newConsole(false)
	in.feed("cmd \"unterminated\n")
	c.Tick()
	if !strings.Contains(out.String(), "Parse error") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestCaseInsensitiveLookup(t *testing.T) {
	c, in, _ := newConsole(false)
	ran := 0
	c.RegisterCommand("Reboot", "", func([]string) { ran++ })

	in.feed("REBOOT\nreboot\n")
	c.Tick()
	if ran != 2 {
		t.Fatalf("ran = %d", ran)
	}
}

func TestUnknownCommand(t *testing.T) {
	c, in, out := newConsole(false)
	in.feed("frobnicate\n")
	c.Tick()
	if !strings.Contains(out.String(), "Unknown command: frobnicate") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestBackspaceEditsLine(t *testing.T) {
	c, in, out := newConsole(true)
	var got []string
	c.RegisterCommand("go", "", func(args []string) { got = args })

	in.feed("go xz\x08y\n")
	c.Tick()
	if len(got) != 1 || got[0] != "xy" {
		t.Fatalf("args = %v", got)
	}
	if !strings.Contains(out.String(), "\b \b") {
		t.Fatalf("no rubout echo: %q", out.String())
	}
}

func TestBackspaceOnEmptyLine(t *testing.T) {
	c, in, out := newConsole(true)
	in.feed("\x08\x08\n")
	c.Tick()
	if strings.Contains(out.String(), "\b") {
		t.Fatal("rubout echoed past line start")
	}
}

func TestHandlerPanicContained(t *testing.T) {
	c, in, out := newConsole(false)
	c.RegisterCommand("boom", "", func([]string) { panic("x") })
	ran := false
	c.RegisterCommand("ok", "", func([]string) { ran = true })

	in.feed("boom\nok\n")
	c.Tick()
	if !strings.Contains(out.String(), "Command handler exception") {
		t.Fatalf("output = %q", out.String())
	}
	if !ran {
		t.Fatal("later command blocked by panic")
	}
}

func TestEmptyLineIgnored(t *testing.T) {
	c, in, out := newConsole(false)
	in.feed("\n   \n")
	c.Tick()
	if out.Len() != 0 {
		t.Fatalf("output = %q", out.String())
	}
}

func TestReregisterKeepsHelpOrder(t *testing.T) {
	c, _, out := newConsole(false)
	c.RegisterCommand("alpha", "first", func([]string) {})
	c.RegisterCommand("beta", "second", func([]string) {})
	c.RegisterCommand("alpha", "replaced", func([]string) {})

	c.PrintHelp()
	text := out.String()
	ia := strings.Index(text, "alpha - replaced")
	ib := strings.Index(text, "beta - second")
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("help = %q", text)
	}
}

func TestBuiltinsRoundTrip(t *testing.T) {
	c, in, out := newConsole(false)
	name := "DieselHeaterController"
	c.RegisterBuiltins(Builtins{
		Sys: SystemInfo{
			UptimeMs:    func() uint64 { return 61000 },
			ResetReason: func() string { return "power-on" },
			IPAddress:   func() string { return "10.0.0.9" },
		},
		Cfg: ConfigAccess{
			DeviceName: func() string { return name },
			WifiSSID:   func() string { return "home" },
			SetName:    func(v string) { name = v },
		},
	})

	in.feed("config\nresetreason\nuptime\nname Garage\n")
	c.Tick()

	text := out.String()
	for _, want := range []string{"deviceName: DieselHeaterController", "wifiSsid: home", "power-on", "0:1:1"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in %q", want, text)
		}
	}
	if name != "Garage" {
		t.Fatalf("name = %q", name)
	}
}

func TestEchoBuiltin(t *testing.T) {
	c, in, out := newConsole(false)
	c.RegisterBuiltins(Builtins{})

	in.feed("echo hello \"setup mode\"\n")
	c.Tick()
	if !strings.Contains(out.String(), "hello setup mode\r\n") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestProvisionBuiltinOptionalName(t *testing.T) {
	c, in, _ := newConsole(false)
	var gotSSID, gotName string
	c.RegisterBuiltins(Builtins{
		Act: Actions{
			Provision: func(ssid, pass, deviceName string) error {
				gotSSID, gotName = ssid, deviceName
				return nil
			},
		},
	})

	in.feed("provision home pw\n")
	c.Tick()
	if gotSSID != "home" || gotName != "" {
		t.Fatalf("ssid %q name %q", gotSSID, gotName)
	}

	in.feed("provision home pw Garage\n")
	c.Tick()
	if gotName != "Garage" {
		t.Fatalf("name = %q", gotName)
	}
}
