//go:build !rp2040 && !rp2350

// Package platform picks the hardware set for the build target.
package platform

import (
	"os"

	"heaterctl-go/platform/host"
	"heaterctl-go/types"
)

// New returns the host simulator hardware. HEATERCTL_DATA selects where
// the flash filesystem lives; empty keeps it in memory.
func New() types.Hardware {
	return host.New(os.Getenv("HEATERCTL_DATA"))
}
