// Package config holds the persisted device settings and writes them back
// to flash atomically, debounced behind a dirty flag.
package config

import (
	"encoding/json"

	"heaterctl-go/errcode"
	"heaterctl-go/fstore"
	"heaterctl-go/logx"
	"heaterctl-go/types"
	"heaterctl-go/x/critical"
	"heaterctl-go/x/strx"
)

const (
	Path              = "/config.json"
	TmpPath           = "/config.json.tmp"
	DefaultDeviceName = "DieselHeaterController"
	DebounceMs        = 2000
)

// Uptime supplies milliseconds since boot for debounce timing.
type Uptime interface {
	UptimeMs() uint64
}

// document is the wire shape. Pointer fields distinguish absent keys from
// empty strings, so partial files only override what they name.
type document struct {
	DeviceName   *string `json:"deviceName"`
	WifiSSID     *string `json:"ssid"`
	WifiPassword *string `json:"password"`
}

// Store keeps the live settings. Setters mark the store dirty; Poll persists
// after the debounce window closes so bursts of changes coalesce into one
// flash write.
type Store struct {
	files *fstore.Store
	clk   Uptime
	log   *logx.Logger
	guard critical.Section

	deviceName   string
	wifiSSID     string
	wifiPassword string

	dirty          bool
	lastChangeMs   uint64
	suppressReload bool
	subID          uint32
}

func New(files *fstore.Store, clk Uptime, log *logx.Logger) *Store {
	s := &Store{files: files, clk: clk, log: log}
	s.applyDefaults()
	return s
}

// Init loads the stored settings and starts watching the file. A missing
// file leaves the defaults in place; a corrupt one does too, with a warning.
func (s *Store) Init() error {
	s.subID = s.files.Subscribe(s.onFileEvent)
	if !s.files.Exists(Path) {
		s.log.Infof("config: %s absent, using defaults", Path)
		return nil
	}
	if err := s.reload(); err != nil {
		s.log.Warnf("config: load failed: %v", err)
		return err
	}
	return nil
}

func (s *Store) applyDefaults() {
	s.deviceName = DefaultDeviceName
	s.wifiSSID = ""
	s.wifiPassword = ""
}

func (s *Store) DeviceName() string {
	st := s.guard.Enter()
	v := s.deviceName
	s.guard.Exit(st)
	return v
}

func (s *Store) WifiSSID() string {
	st := s.guard.Enter()
	v := s.wifiSSID
	s.guard.Exit(st)
	return v
}

func (s *Store) WifiPassword() string {
	st := s.guard.Enter()
	v := s.wifiPassword
	s.guard.Exit(st)
	return v
}

// Provisioned reports whether STA credentials are present.
func (s *Store) Provisioned() bool {
	return s.WifiSSID() != ""
}

func (s *Store) SetDeviceName(v string)   { s.set(&s.deviceName, v) }
func (s *Store) SetWifiSSID(v string)     { s.set(&s.wifiSSID, v) }
func (s *Store) SetWifiPassword(v string) { s.set(&s.wifiPassword, v) }

func (s *Store) set(field *string, v string) {
	st := s.guard.Enter()
	if *field != v {
		*field = v
		s.dirty = true
		s.lastChangeMs = s.clk.UptimeMs()
	}
	s.guard.Exit(st)
}

func (s *Store) Dirty() bool {
	st := s.guard.Enter()
	d := s.dirty
	s.guard.Exit(st)
	return d
}

// Poll persists once the store has been dirty and untouched for the
// debounce window. Called every loop tick.
func (s *Store) Poll() {
	st := s.guard.Enter()
	due := s.dirty && s.clk.UptimeMs()-s.lastChangeMs >= DebounceMs
	s.guard.Exit(st)
	if due {
		if err := s.persist(); err != nil {
			s.log.Errorf("config: persist failed: %v", err)
		}
	}
}

// ForcePersist writes immediately if there are unsaved changes.
func (s *Store) ForcePersist() bool {
	if !s.Dirty() {
		return true
	}
	if err := s.persist(); err != nil {
		s.log.Errorf("config: persist failed: %v", err)
		return false
	}
	return true
}

// persist serializes the settings and replaces the config file atomically:
// full write to a temporary file, then rename over the target. Failures
// leave the store dirty so Poll retries on the next debounce expiry.
func (s *Store) persist() error {
	st := s.guard.Enter()
	doc := document{
		DeviceName:   strPtr(s.deviceName),
		WifiSSID:     strPtr(s.wifiSSID),
		WifiPassword: strPtr(s.wifiPassword),
	}
	s.suppressReload = true
	s.guard.Exit(st)

	ok := false
	defer func() {
		st := s.guard.Enter()
		s.suppressReload = false
		if ok {
			s.dirty = false
		}
		s.guard.Exit(st)
	}()

	data, err := json.Marshal(&doc)
	if err != nil {
		return errcode.Wrap(errcode.CfgPersistFailed, err)
	}

	fs := s.files.Backend()
	existed := s.files.Exists(Path)
	n, err := fs.WriteFile(TmpPath, data)
	if err != nil {
		return errcode.Wrap(errcode.CfgPersistFailed, err)
	}
	if n != len(data) {
		fs.Remove(TmpPath)
		return errcode.Wrap(errcode.CfgPersistFailed, errcode.FSShortWrite)
	}
	if existed {
		if err := fs.Remove(Path); err != nil {
			fs.Remove(TmpPath)
			return errcode.Wrap(errcode.CfgPersistFailed, err)
		}
	}
	if err := fs.Rename(TmpPath, Path); err != nil {
		return errcode.Wrap(errcode.CfgPersistFailed, err)
	}
	ok = true

	action := types.FileUpdated
	if !existed {
		action = types.FileCreated
	}
	s.files.EmitExcept(Path, action, s.subID)
	s.log.Infof("config: saved %d bytes to %s", len(data), Path)
	return nil
}

func (s *Store) onFileEvent(path string, action types.FileAction) {
	if path != Path {
		return
	}
	st := s.guard.Enter()
	suppressed := s.suppressReload
	s.guard.Exit(st)
	if suppressed {
		return
	}

	switch action {
	case types.FileCreated, types.FileUpdated:
		if err := s.reload(); err != nil {
			s.log.Warnf("config: reload after %s failed: %v", action.String(), err)
		}
	case types.FileRemoved:
		st := s.guard.Enter()
		s.applyDefaults()
		s.dirty = false
		s.guard.Exit(st)
		s.log.Infof("config: %s removed, defaults restored", Path)
	}
}

// reload replaces the in-memory settings from the file. A parse failure
// keeps the current snapshot untouched.
func (s *Store) reload() error {
	data, err := s.files.ReadBinary(Path)
	if err != nil {
		return err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errcode.Wrap(errcode.CfgParseFailed, err)
	}

	st := s.guard.Enter()
	s.applyDefaults()
	if doc.DeviceName != nil {
		s.deviceName = strx.Coalesce(*doc.DeviceName, DefaultDeviceName)
	}
	if doc.WifiSSID != nil {
		s.wifiSSID = *doc.WifiSSID
	}
	if doc.WifiPassword != nil {
		s.wifiPassword = *doc.WifiPassword
	}
	s.dirty = false
	s.guard.Exit(st)
	return nil
}

func strPtr(v string) *string { return &v }
