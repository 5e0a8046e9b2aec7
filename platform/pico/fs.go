//go:build rp2040 || rp2350

package pico

import (
	"io"
	"machine"
	"os"

	"tinygo.org/x/tinyfs/littlefs"

	"heaterctl-go/types"
)

// FlashFS is a littlefs filesystem on the free region of the on-board flash.
type FlashFS struct {
	lfs *littlefs.LFS
}

func NewFlashFS() *FlashFS {
	lfs := littlefs.New(machine.Flash)
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 512,
		BlockCycles:   100,
	})
	return &FlashFS{lfs: lfs}
}

// Mount formats on first use.
func (f *FlashFS) Mount() error {
	if err := f.lfs.Mount(); err == nil {
		return nil
	}
	if err := f.lfs.Format(); err != nil {
		return err
	}
	return f.lfs.Mount()
}

func (f *FlashFS) Unmount() error {
	return f.lfs.Unmount()
}

func (f *FlashFS) Exists(path string) bool {
	_, err := f.lfs.Stat(path)
	return err == nil
}

func (f *FlashFS) ReadFile(path string) ([]byte, error) {
	file, err := f.lfs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (f *FlashFS) WriteFile(path string, data []byte) (int, error) {
	file, err := f.lfs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return 0, err
	}
	n, err := file.Write(data)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (f *FlashFS) Remove(path string) error {
	return f.lfs.Remove(path)
}

func (f *FlashFS) Rename(oldPath, newPath string) error {
	return f.lfs.Rename(oldPath, newPath)
}

func (f *FlashFS) List(path string) ([]types.FileInfo, error) {
	dir, err := f.lfs.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()
	entries, err := dir.Readdir(0)
	if err != nil {
		return nil, err
	}
	out := make([]types.FileInfo, 0, len(entries))
	for _, e := range entries {
		fi := types.FileInfo{Name: e.Name(), Type: "file", Size: e.Size()}
		if e.IsDir() {
			fi.Type = "dir"
		}
		out = append(out, fi)
	}
	return out, nil
}
