// Package fstore layers path normalization, lazy mounting and change
// notification over the raw flash filesystem.
package fstore

import (
	"heaterctl-go/errcode"
	"heaterctl-go/logx"
	"heaterctl-go/types"
)

type subEntry struct {
	id uint32
	fn types.FileEventFunc
}

// Store is the shared file access point. All file mutations flow through it
// so observers see a consistent stream of change events.
type Store struct {
	fs      types.Filesystem
	log     *logx.Logger
	mounted bool
	nextID  uint32
	subs    []subEntry
}

func New(fs types.Filesystem, log *logx.Logger) *Store {
	return &Store{fs: fs, log: log, nextID: 1}
}

// Backend exposes the raw filesystem for callers that must sequence writes
// themselves, such as the atomic config persist.
func (s *Store) Backend() types.Filesystem { return s.fs }

// Mount brings the filesystem up. Retrying after a failure is allowed.
func (s *Store) Mount() error {
	if s.mounted {
		return nil
	}
	if err := s.fs.Mount(); err != nil {
		return errcode.Wrap(errcode.FSUnavailable, err)
	}
	s.mounted = true
	return nil
}

func (s *Store) Unmount() error {
	if !s.mounted {
		return nil
	}
	if err := s.fs.Unmount(); err != nil {
		return err
	}
	s.mounted = false
	return nil
}

func (s *Store) Mounted() bool { return s.mounted }

func (s *Store) ensure() error {
	if s.mounted {
		return nil
	}
	return s.Mount()
}

// normalize guarantees a single leading slash.
func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		return "/" + path
	}
	return path
}

func (s *Store) Exists(path string) bool {
	if s.ensure() != nil {
		return false
	}
	return s.fs.Exists(normalize(path))
}

func (s *Store) Read(path string) (string, error) {
	b, err := s.ReadBinary(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) ReadBinary(path string) ([]byte, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	path = normalize(path)
	if !s.fs.Exists(path) {
		return nil, errcode.FSNotFound
	}
	return s.fs.ReadFile(path)
}

func (s *Store) WriteString(path, data string) error {
	return s.Write(path, []byte(data))
}

// Write stores data and notifies observers with CREATED or UPDATED. A short
// write fails without an event; the file state is then undefined.
func (s *Store) Write(path string, data []byte) error {
	if err := s.ensure(); err != nil {
		return err
	}
	path = normalize(path)
	existed := s.fs.Exists(path)
	n, err := s.fs.WriteFile(path, data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return errcode.FSShortWrite
	}
	action := types.FileCreated
	if existed {
		action = types.FileUpdated
	}
	s.notify(path, action, 0)
	return nil
}

func (s *Store) Remove(path string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	path = normalize(path)
	if !s.fs.Exists(path) {
		return errcode.FSNotFound
	}
	if err := s.fs.Remove(path); err != nil {
		return err
	}
	s.notify(path, types.FileRemoved, 0)
	return nil
}

// Rename moves a file without emitting any event. It exists for callers that
// manage their own notification, again the config persist path.
func (s *Store) Rename(oldPath, newPath string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	return s.fs.Rename(normalize(oldPath), normalize(newPath))
}

func (s *Store) List(path string) ([]types.FileInfo, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return s.fs.List(normalize(path))
}

// Subscribe registers fn for every file change event and returns an
// identifier for Unsubscribe. Identifiers are never zero.
func (s *Store) Subscribe(fn types.FileEventFunc) uint32 {
	id := s.claimID()
	s.subs = append(s.subs, subEntry{id: id, fn: fn})
	return id
}

// claimID returns the next free identifier, scanning past live ones after
// the 32-bit counter wraps.
func (s *Store) claimID() uint32 {
	for {
		id := s.nextID
		s.nextID++
		if s.nextID == 0 {
			s.nextID = 1
		}
		if id == 0 {
			continue
		}
		if !s.idInUse(id) {
			return id
		}
	}
}

func (s *Store) idInUse(id uint32) bool {
	for _, e := range s.subs {
		if e.id == id {
			return true
		}
	}
	return false
}

func (s *Store) Unsubscribe(id uint32) bool {
	for i, e := range s.subs {
		if e.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// EmitExcept delivers a synthetic change event to every observer except the
// one identified by skipID. Callers use it after out-of-band mutations made
// through Backend.
func (s *Store) EmitExcept(path string, action types.FileAction, skipID uint32) {
	s.notify(normalize(path), action, skipID)
}

// notify dispatches to a snapshot of the observer list in registration
// order, so observers may unsubscribe or subscribe during dispatch.
func (s *Store) notify(path string, action types.FileAction, skipID uint32) {
	snapshot := make([]subEntry, len(s.subs))
	copy(snapshot, s.subs)
	for _, e := range snapshot {
		if skipID != 0 && e.id == skipID {
			continue
		}
		s.dispatch(e, path, action)
	}
}

func (s *Store) dispatch(e subEntry, path string, action types.FileAction) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("file observer %d panicked: %v", e.id, r)
		}
	}()
	e.fn(path, action)
}
