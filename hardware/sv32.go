package hardware

// Page and table geometry of the Sv32 translation scheme.
const (
	PageShift       = 12
	PageSize        = 1 << PageShift
	EntriesPerTable = 1024
	MegapageSize    = 1 << 22
)

// Flag bits of a page-table entry.
const (
	PTEValid    uint32 = 1 << 0
	PTERead     uint32 = 1 << 1
	PTEWrite    uint32 = 1 << 2
	PTEExec     uint32 = 1 << 3
	PTEUser     uint32 = 1 << 4
	PTEGlobal   uint32 = 1 << 5
	PTEAccessed uint32 = 1 << 6
	PTEDirty    uint32 = 1 << 7

	// PTENextLevel marks an entry that points at another table.
	PTENextLevel = PTEValid

	// PTEValidRWX marks a leaf that can be read, written, and executed.
	PTEValidRWX = PTEValid | PTERead | PTEWrite | PTEExec

	pteLeafMask = PTERead | PTEWrite | PTEExec
)

// SATPModeSv32 is the mode bit of the satp register that turns on Sv32
// translation.
const SATPModeSv32 uint32 = 1 << 31

const satpPPNMask uint32 = 0x3FFFFF

// MakePTE packs a page-aligned physical address and flags into an entry.
func MakePTE(pa uint32, flags uint32) uint32 {
	return (pa>>PageShift)<<10 | flags
}

// PTEAddr extracts the physical address an entry points at.
func PTEAddr(pte uint32) uint32 {
	return (pte >> 10) << PageShift
}

// IsLeaf tells if a valid entry is a leaf rather than a pointer to the next
// level.
func IsLeaf(pte uint32) bool {
	return pte&pteLeafMask != 0
}

// VPN1 returns the root-table index of a virtual address.
func VPN1(va uint32) uint32 {
	return va >> 22
}

// VPN0 returns the leaf-table index of a virtual address.
func VPN0(va uint32) uint32 {
	return (va >> PageShift) & (EntriesPerTable - 1)
}

// MakeSATP returns the satp value that activates the root table at rootPA.
func MakeSATP(rootPA uint32) uint32 {
	return SATPModeSv32 | (rootPA>>PageShift)&satpPPNMask
}

// SATPRoot returns the physical address of the root table held by satp.
func SATPRoot(satp uint32) uint32 {
	return (satp & satpPPNMask) << PageShift
}

// An Access is the kind of memory access being translated.
type Access int

// Access kinds.
const (
	AccessRead Access = iota
	AccessWrite
	AccessExec
)

func (a Access) pageFault() TrapCause {
	switch a {
	case AccessWrite:
		return CauseStorePageFault
	case AccessExec:
		return CauseInstructionPageFault
	default:
		return CauseLoadPageFault
	}
}

func (a Access) permitted(pte uint32) bool {
	switch a {
	case AccessWrite:
		return pte&PTEWrite != 0
	case AccessExec:
		return pte&PTEExec != 0
	default:
		return pte&PTERead != 0
	}
}

// walk performs the two-level Sv32 table walk the hardware does on a
// translation-cache miss. It returns the physical address and the leaf
// entry.
func (b *Board) walk(
	root uint32,
	va uint32,
	access Access,
) (pa uint32, pte uint32, trap *Trap) {
	fault := &Trap{Cause: access.pageFault(), Addr: va}

	pte1, err := b.memory.Read32(uint64(root + VPN1(va)*4))
	if err != nil || pte1&PTEValid == 0 {
		return 0, 0, fault
	}

	if IsLeaf(pte1) {
		if (pte1>>10)&(EntriesPerTable-1) != 0 {
			return 0, 0, fault
		}

		if !validLeaf(pte1) || !access.permitted(pte1) {
			return 0, 0, fault
		}

		return PTEAddr(pte1) | va&(MegapageSize-1), pte1, nil
	}

	pte0, err := b.memory.Read32(uint64(PTEAddr(pte1) + VPN0(va)*4))
	if err != nil || pte0&PTEValid == 0 || !IsLeaf(pte0) {
		return 0, 0, fault
	}

	if !validLeaf(pte0) || !access.permitted(pte0) {
		return 0, 0, fault
	}

	return PTEAddr(pte0) | va&(PageSize-1), pte0, nil
}

// A writable page must also be readable.
func validLeaf(pte uint32) bool {
	return !(pte&PTEWrite != 0 && pte&PTERead == 0)
}
