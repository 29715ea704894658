// Package vm defines what the translation backends and the MMU share:
// validated identifiers, the physical layout constants, the error taxonomy,
// and the hook positions that report frame traffic.
package vm

import (
	"fmt"
	"strings"
)

// Layout constants of the machine.
const (
	PageShift     = 12
	PageSize      = 1 << PageShift
	NumFrames     = 256
	MaxNumProcess = 16
	NumPages      = 1 << 20
)

// PID stands for Process ID.
type PID int

// NoPID is the PID recorded when no process is active.
const NoPID PID = -1

// KernelPID is the process that owns the kernel's identity mapping.
const KernelPID PID = 0

// NewPID validates n and converts it to a PID.
func NewPID(n int) (PID, error) {
	pid := PID(n)
	if !pid.Valid() {
		return NoPID, fmt.Errorf("pid %d: %w", n, ErrInvalidID)
	}

	return pid, nil
}

// Valid tells if the PID indexes a process slot.
func (p PID) Valid() bool {
	return p >= 0 && int(p) < MaxNumProcess
}

// FrameID identifies one of the physical frames.
type FrameID int

// NewFrameID validates n and converts it to a FrameID.
func NewFrameID(n int) (FrameID, error) {
	id := FrameID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("frame %d: %w", n, ErrInvalidID)
	}

	return id, nil
}

// Valid tells if the id names a frame of the pool.
func (f FrameID) Valid() bool {
	return f >= 0 && f < NumFrames
}

// PageNo is a virtual page number, the virtual address shifted right by the
// page offset width.
type PageNo uint32

// NewPageNo validates n and converts it to a PageNo.
func NewPageNo(n uint32) (PageNo, error) {
	page := PageNo(n)
	if !page.Valid() {
		return 0, fmt.Errorf("page 0x%x: %w", n, ErrInvalidID)
	}

	return page, nil
}

// PageOf returns the page that contains the virtual address.
func PageOf(va uint32) PageNo {
	return PageNo(va >> PageShift)
}

// Valid tells if the page lies in the 32-bit virtual address space.
func (p PageNo) Valid() bool {
	return p < NumPages
}

// Addr returns the first virtual address of the page.
func (p PageNo) Addr() uint32 {
	return uint32(p) << PageShift
}

// Mode selects the translation mechanism.
type Mode int

// The two translation mechanisms. The values match the answers of the boot
// prompt.
const (
	ModePageTable Mode = 0
	ModeSoftTLB   Mode = 1
)

func (m Mode) String() string {
	switch m {
	case ModePageTable:
		return "Page table"
	case ModeSoftTLB:
		return "Software"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a prompt answer or a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "pagetable", "page-table", "page_table":
		return ModePageTable, nil
	case "1", "soft", "softtlb", "soft-tlb", "software":
		return ModeSoftTLB, nil
	default:
		return 0, fmt.Errorf("unknown translation mode %q", s)
	}
}
