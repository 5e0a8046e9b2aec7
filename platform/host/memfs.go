//go:build !rp2040 && !rp2350

package host

import (
	"errors"
	"sort"
	"strings"

	"heaterctl-go/types"
)

// MemFS is an in-memory Filesystem for host runs and tests. Failure modes
// are injectable so error paths can be exercised.
type MemFS struct {
	files   map[string][]byte
	mounted bool

	// MountErr, when set, makes Mount fail.
	MountErr error
	// ShortWriteAt truncates the next write to this path to half its length.
	ShortWriteAt string
}

func NewMemFS() *MemFS {
	return &MemFS{files: map[string][]byte{}}
}

func (m *MemFS) Mount() error {
	if m.MountErr != nil {
		return m.MountErr
	}
	m.mounted = true
	return nil
}

func (m *MemFS) Unmount() error {
	m.mounted = false
	return nil
}

func (m *MemFS) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemFS) WriteFile(path string, data []byte) (int, error) {
	n := len(data)
	if m.ShortWriteAt == path {
		m.ShortWriteAt = ""
		n = len(data) / 2
	}
	buf := make([]byte, n)
	copy(buf, data[:n])
	m.files[path] = buf
	return n, nil
}

func (m *MemFS) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return errors.New("no such file: " + path)
	}
	delete(m.files, path)
	return nil
}

func (m *MemFS) Rename(oldPath, newPath string) error {
	data, ok := m.files[oldPath]
	if !ok {
		return errors.New("no such file: " + oldPath)
	}
	m.files[newPath] = data
	delete(m.files, oldPath)
	return nil
}

func (m *MemFS) List(path string) ([]types.FileInfo, error) {
	prefix := path
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	var out []types.FileInfo
	for name, data := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if strings.Contains(rest, "/") {
			continue
		}
		out = append(out, types.FileInfo{Name: rest, Type: "file", Size: int64(len(data))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
