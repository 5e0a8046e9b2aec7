package config

import (
	"strings"
	"testing"

	"heaterctl-go/fstore"
	"heaterctl-go/platform/host"
	"heaterctl-go/types"
)

type fakeUptime struct{ ms uint64 }

func (f *fakeUptime) UptimeMs() uint64 { return f.ms }

func setup(t *testing.T) (*Store, *fstore.Store, *host.MemFS, *fakeUptime) {
	t.Helper()
	fs := host.NewMemFS()
	files := fstore.New(fs, nil)
	clk := &fakeUptime{}
	cfg := New(files, clk, nil)
	if err := cfg.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return cfg, files, fs, clk
}

func TestDefaultsWhenFileAbsent(t *testing.T) {
	cfg, _, _, _ := setup(t)
	if cfg.DeviceName() != DefaultDeviceName {
		t.Fatalf("deviceName = %q", cfg.DeviceName())
	}
	if cfg.Provisioned() {
		t.Fatal("provisioned without credentials")
	}
}

func TestDebounceCoalescesWrites(t *testing.T) {
	cfg, _, fs, clk := setup(t)

	cfg.SetWifiSSID("net1")
	clk.ms = 1000
	cfg.SetWifiSSID("net2")
	clk.ms = 2500
	cfg.Poll()
	if fs.Exists(Path) {
		t.Fatal("persisted before debounce window closed")
	}

	clk.ms = 3001
	cfg.Poll()
	if !fs.Exists(Path) {
		t.Fatal("not persisted after debounce window")
	}
	data, _ := fs.ReadFile(Path)
	if !strings.Contains(string(data), `"net2"`) {
		t.Fatalf("file = %s", data)
	}
	if cfg.Dirty() {
		t.Fatal("still dirty after persist")
	}
}

func TestSetterNoopSkipsDirty(t *testing.T) {
	cfg, _, _, _ := setup(t)
	cfg.SetDeviceName(DefaultDeviceName)
	if cfg.Dirty() {
		t.Fatal("unchanged value marked dirty")
	}
}

func TestPersistEmitsSingleEventToOthers(t *testing.T) {
	cfg, files, _, clk := setup(t)

	var got []types.FileAction
	files.Subscribe(func(p string, a types.FileAction) {
		if p == Path {
			got = append(got, a)
		}
	})

	cfg.SetWifiSSID("net")
	clk.ms = DebounceMs + 1
	cfg.Poll()

	if len(got) != 1 || got[0] != types.FileCreated {
		t.Fatalf("events = %v, want one CREATED", got)
	}
	// A second save over the existing file reads as UPDATED.
	got = nil
	cfg.SetWifiSSID("net2")
	clk.ms += DebounceMs + 1
	cfg.Poll()
	if len(got) != 1 || got[0] != types.FileUpdated {
		t.Fatalf("events = %v, want one UPDATED", got)
	}
}

func TestPersistDoesNotRetriggerOwnReload(t *testing.T) {
	cfg, _, _, clk := setup(t)

	cfg.SetWifiSSID("net")
	cfg.SetWifiPassword("pw")
	clk.ms = DebounceMs + 1
	cfg.Poll()

	// The values must survive the save untouched.
	if cfg.WifiSSID() != "net" || cfg.WifiPassword() != "pw" {
		t.Fatalf("settings mutated by save: %q/%q", cfg.WifiSSID(), cfg.WifiPassword())
	}
}

func TestShortWriteLeavesDirtyAndNoConfig(t *testing.T) {
	cfg, _, fs, clk := setup(t)

	cfg.SetWifiSSID("net")
	clk.ms = DebounceMs + 1
	fs.ShortWriteAt = TmpPath
	cfg.Poll()

	if fs.Exists(Path) {
		t.Fatal("target written despite short write")
	}
	if fs.Exists(TmpPath) {
		t.Fatal("temporary file left behind")
	}
	if !cfg.Dirty() {
		t.Fatal("dirty cleared on failed persist")
	}

	// The retry on the next debounce expiry succeeds.
	clk.ms += DebounceMs + 1
	cfg.Poll()
	if !fs.Exists(Path) || cfg.Dirty() {
		t.Fatal("retry did not persist")
	}
}

func TestExternalUpdateReloads(t *testing.T) {
	cfg, files, _, _ := setup(t)

	files.WriteString(Path, `{"deviceName":"Garage","ssid":"home"}`)
	if cfg.DeviceName() != "Garage" || cfg.WifiSSID() != "home" {
		t.Fatalf("reload missed: %q/%q", cfg.DeviceName(), cfg.WifiSSID())
	}
	// Keys absent from the file fall back to defaults.
	if cfg.WifiPassword() != "" {
		t.Fatalf("password = %q, want empty", cfg.WifiPassword())
	}
}

func TestCorruptFileKeepsSnapshot(t *testing.T) {
	cfg, files, _, _ := setup(t)

	files.WriteString(Path, `{"deviceName":"Garage"}`)
	files.WriteString(Path, `{not json`)
	if cfg.DeviceName() != "Garage" {
		t.Fatalf("snapshot lost on parse failure: %q", cfg.DeviceName())
	}
}

func TestRemoveRestoresDefaults(t *testing.T) {
	cfg, files, _, _ := setup(t)

	files.WriteString(Path, `{"deviceName":"Garage","ssid":"home"}`)
	files.Remove(Path)
	if cfg.DeviceName() != DefaultDeviceName || cfg.WifiSSID() != "" {
		t.Fatalf("defaults not restored: %q/%q", cfg.DeviceName(), cfg.WifiSSID())
	}
}

func TestInitLoadsExistingFile(t *testing.T) {
	fs := host.NewMemFS()
	files := fstore.New(fs, nil)
	files.WriteString(Path, `{"ssid":"boot","password":"pw"}`)

	cfg := New(files, &fakeUptime{}, nil)
	if err := cfg.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if cfg.WifiSSID() != "boot" || !cfg.Provisioned() {
		t.Fatalf("loaded ssid = %q", cfg.WifiSSID())
	}
}

func TestPersistedDocumentUsesWireKeys(t *testing.T) {
	cfg, files, _, _ := setup(t)

	cfg.SetWifiSSID("OfficeWiFi")
	cfg.SetWifiPassword("hunter2")
	cfg.SetDeviceName("boilerA")
	if !cfg.ForcePersist() {
		t.Fatal("persist failed")
	}

	data, err := files.Read(Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{`"ssid":"OfficeWiFi"`, `"password":"hunter2"`, `"deviceName":"boilerA"`} {
		if !strings.Contains(data, want) {
			t.Fatalf("missing %s in %s", want, data)
		}
	}
}

func TestEmptyDeviceNameFallsBackToDefault(t *testing.T) {
	cfg, files, _, _ := setup(t)

	files.WriteString(Path, `{"deviceName":"","ssid":"home"}`)
	if cfg.DeviceName() != DefaultDeviceName {
		t.Fatalf("deviceName = %q", cfg.DeviceName())
	}
}
