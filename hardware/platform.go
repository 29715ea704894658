package hardware

import (
	"fmt"
	"strings"
)

// Platform identifies the board that the kernel is running on.
type Platform int

// The boards the kernel knows about.
const (
	PlatformQEMU Platform = iota
	PlatformArty
)

func (p Platform) String() string {
	switch p {
	case PlatformQEMU:
		return "QEMU"
	case PlatformArty:
		return "Arty"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// SupportsSupervisorMode tells if the platform implements the supervisor
// privilege level, which is required for page-table translation.
func (p Platform) SupportsSupervisorMode() bool {
	return p == PlatformQEMU
}

// ParsePlatform converts a platform name into a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qemu":
		return PlatformQEMU, nil
	case "arty":
		return PlatformArty, nil
	default:
		return 0, fmt.Errorf("unknown platform %q", s)
	}
}
