//go:build !linux && !rp2040 && !rp2350

package host

import "heaterctl-go/types"

// NewButton has no GPIO to read on this platform.
func NewButton(chip string, offset int) types.Button {
	return &FakeButton{}
}
