//go:build !rp2040 && !rp2350

package host

import (
	"os"
	"path/filepath"

	"heaterctl-go/types"
)

// DirFS backs the flash filesystem with a directory on the host.
type DirFS struct {
	root string
}

func NewDirFS(root string) *DirFS {
	return &DirFS{root: root}
}

func (d *DirFS) resolve(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *DirFS) Mount() error {
	return os.MkdirAll(d.root, 0o755)
}

func (d *DirFS) Unmount() error { return nil }

func (d *DirFS) Exists(path string) bool {
	_, err := os.Stat(d.resolve(path))
	return err == nil
}

func (d *DirFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(d.resolve(path))
}

func (d *DirFS) WriteFile(path string, data []byte) (int, error) {
	full := d.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(full)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (d *DirFS) Remove(path string) error {
	return os.Remove(d.resolve(path))
}

func (d *DirFS) Rename(oldPath, newPath string) error {
	return os.Rename(d.resolve(oldPath), d.resolve(newPath))
}

func (d *DirFS) List(path string) ([]types.FileInfo, error) {
	entries, err := os.ReadDir(d.resolve(path))
	if err != nil {
		return nil, err
	}
	out := make([]types.FileInfo, 0, len(entries))
	for _, e := range entries {
		fi := types.FileInfo{Name: e.Name(), Type: "file"}
		if e.IsDir() {
			fi.Type = "dir"
		} else if info, err := e.Info(); err == nil {
			fi.Size = info.Size()
		}
		out = append(out, fi)
	}
	return out, nil
}
