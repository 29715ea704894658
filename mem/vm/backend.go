package vm

import "github.com/sarchlab/egosmmu/hooking"

// A Backend translates the virtual pages of the active process. There are
// exactly two of them, the software TLB and the page table, and the MMU
// picks one at boot.
type Backend interface {
	hooking.Hookable

	// Map records that frame now holds the page of pid.
	Map(pid PID, page PageNo, frame FrameID) error

	// Switch makes pid the process whose pages are reachable.
	Switch(pid PID) error

	// Active returns the process installed by the last Switch, or NoPID.
	Active() PID

	// Detach forgets pid after its frames are freed, so that a later
	// process reusing the PID gets switched in from scratch.
	Detach(pid PID)
}
