//go:build rp2040 || rp2350

package platform

import (
	"heaterctl-go/platform/pico"
	"heaterctl-go/types"
)

// New returns the Pico W hardware.
func New() types.Hardware {
	return pico.New()
}
