package hardware

import "fmt"

// TrapCause is the exception code reported in mcause.
type TrapCause int

// Exception codes the simulated board can raise.
const (
	CauseLoadAccessFault      TrapCause = 5
	CauseStoreAccessFault     TrapCause = 7
	CauseInstructionPageFault TrapCause = 12
	CauseLoadPageFault        TrapCause = 13
	CauseStorePageFault       TrapCause = 15
)

func (c TrapCause) String() string {
	switch c {
	case CauseLoadAccessFault:
		return "load access fault"
	case CauseStoreAccessFault:
		return "store access fault"
	case CauseInstructionPageFault:
		return "instruction page fault"
	case CauseLoadPageFault:
		return "load page fault"
	case CauseStorePageFault:
		return "store page fault"
	default:
		return fmt.Sprintf("exception %d", int(c))
	}
}

// A Trap describes an exception raised by a memory access.
type Trap struct {
	Cause TrapCause
	Addr  uint32
}

// A TrapHandler is invoked when an exception is raised. Returning from the
// handler resumes execution after the faulting instruction.
type TrapHandler func(trap Trap)

// TrapError is returned when an exception is raised and no handler is
// registered to take it.
type TrapError struct {
	Trap
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("unhandled %s at 0x%08x", e.Cause, e.Addr)
}
