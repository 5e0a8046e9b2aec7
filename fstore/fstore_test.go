package fstore

import (
	"errors"
	"testing"

	"heaterctl-go/errcode"
	"heaterctl-go/platform/host"
	"heaterctl-go/types"
)

type event struct {
	path   string
	action types.FileAction
}

func newStore(t *testing.T) (*Store, *host.MemFS) {
	t.Helper()
	fs := host.NewMemFS()
	return New(fs, nil), fs
}

func TestWriteEmitsCreatedThenUpdated(t *testing.T) {
	s, _ := newStore(t)
	var got []event
	s.Subscribe(func(p string, a types.FileAction) { got = append(got, event{p, a}) })

	if err := s.WriteString("/a.txt", "one"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.WriteString("a.txt", "two"); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	want := []event{{"/a.txt", types.FileCreated}, {"/a.txt", types.FileUpdated}}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	data, err := s.Read("a.txt")
	if err != nil || data != "two" {
		t.Fatalf("read = %q,%v want %q,nil", data, err, "two")
	}
}

func TestShortWriteFailsWithoutEvent(t *testing.T) {
	s, fs := newStore(t)
	fired := 0
	s.Subscribe(func(string, types.FileAction) { fired++ })

	fs.ShortWriteAt = "/a.txt"
	err := s.WriteString("/a.txt", "0123456789")
	if !errors.Is(err, errcode.FSShortWrite) {
		t.Fatalf("err = %v, want FSShortWrite", err)
	}
	if fired != 0 {
		t.Fatalf("event fired on short write")
	}
}

func TestMountFailure(t *testing.T) {
	fs := host.NewMemFS()
	fs.MountErr = errors.New("flash dead")
	s := New(fs, nil)

	_, err := s.Read("/a.txt")
	if errcode.Of(err) != errcode.FSUnavailable {
		t.Fatalf("err = %v, want FSUnavailable", err)
	}
}

func TestRemoveEventsAndNotFound(t *testing.T) {
	s, _ := newStore(t)
	var got []event
	s.Subscribe(func(p string, a types.FileAction) { got = append(got, event{p, a}) })

	if err := s.Remove("/missing"); !errors.Is(err, errcode.FSNotFound) {
		t.Fatalf("remove missing = %v, want FSNotFound", err)
	}
	s.WriteString("/a.txt", "x")
	if err := s.Remove("/a.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	last := got[len(got)-1]
	if last.action != types.FileRemoved || last.path != "/a.txt" {
		t.Fatalf("last event = %v", last)
	}
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	s, _ := newStore(t)
	var order []int
	var id2 uint32
	s.Subscribe(func(string, types.FileAction) {
		order = append(order, 1)
		s.Unsubscribe(id2)
	})
	id2 = s.Subscribe(func(string, types.FileAction) { order = append(order, 2) })

	s.WriteString("/a", "x")
	// The snapshot taken at dispatch still includes observer 2.
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("first dispatch order = %v", order)
	}

	order = nil
	s.WriteString("/a", "y")
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("second dispatch order = %v", order)
	}
}

func TestObserverPanicIsContained(t *testing.T) {
	s, _ := newStore(t)
	ran := false
	s.Subscribe(func(string, types.FileAction) { panic("boom") })
	s.Subscribe(func(string, types.FileAction) { ran = true })

	if err := s.WriteString("/a", "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !ran {
		t.Fatal("observer after panicking one did not run")
	}
}

func TestEmitExceptSkipsOnlyNamedObserver(t *testing.T) {
	s, _ := newStore(t)
	hits := map[uint32]int{}
	var idA, idB uint32
	idA = s.Subscribe(func(string, types.FileAction) { hits[idA]++ })
	idB = s.Subscribe(func(string, types.FileAction) { hits[idB]++ })

	s.EmitExcept("/config.json", types.FileUpdated, idA)
	if hits[idA] != 0 || hits[idB] != 1 {
		t.Fatalf("hits = %v", hits)
	}
}

func TestIDWrapSkipsLiveIDs(t *testing.T) {
	s, _ := newStore(t)
	held := s.Subscribe(func(string, types.FileAction) {})
	if held != 1 {
		t.Fatalf("first id = %d, want 1", held)
	}

	s.nextID = ^uint32(0)
	a := s.Subscribe(func(string, types.FileAction) {})
	if a != ^uint32(0) {
		t.Fatalf("id = %d, want max", a)
	}
	// Counter wraps past zero and must skip the still-held id 1.
	b := s.Subscribe(func(string, types.FileAction) {})
	if b == 0 || b == held {
		t.Fatalf("wrapped id = %d collides", b)
	}
	if b != 2 {
		t.Fatalf("wrapped id = %d, want 2", b)
	}
}
