// Package hardware simulates the parts of a RISC-V board that the MMU
// relies on: physical memory, the trap vector, the satp register, and the
// translation cache that satp feeds.
package hardware

import (
	"github.com/sarchlab/egosmmu/mem/lru"
)

// PhysicalMemory is the memory as seen with translation turned off.
type PhysicalMemory interface {
	ReadPhys(addr uint32, n int) ([]byte, error)
	WritePhys(addr uint32, data []byte) error
	ReadWord(addr uint32) (uint32, error)
	WriteWord(addr uint32, value uint32) error
}

// TranslationRegister gives access to satp and to the fence that invalidates
// cached translations.
type TranslationRegister interface {
	SATP() uint32
	WriteSATP(value uint32)
	FlushTLB()
}

// TrapVector lets the kernel install a handler for exceptions. Registering
// nil removes the handler.
type TrapVector interface {
	RegisterTrapHandler(handler TrapHandler)
}

// Machine is everything the MMU needs from the board.
type Machine interface {
	PhysicalMemory
	TranslationRegister
	TrapVector

	// Store performs a word store from the CPU, subject to translation and
	// faults.
	Store(va uint32, value uint32) error
}

// A Region is a range of physical addresses.
type Region struct {
	Base uint32
	Size uint32
}

func (r Region) contains(addr uint32, n int) bool {
	end := uint64(addr) + uint64(n)
	return uint64(addr) < uint64(r.Base)+uint64(r.Size) &&
		end > uint64(r.Base)
}

type tlbEntry struct {
	ppn uint32
	pte uint32
}

// Board is a simulated RV32 board.
type Board struct {
	name     string
	platform Platform
	memory   *Storage
	holes    []Region

	trapHandler TrapHandler

	satp       uint32
	tlb        lru.Set
	tlbEntries []tlbEntry
	numFlushes int
}

// Name returns the name of the board.
func (b *Board) Name() string {
	return b.name
}

// Platform returns the kind of the board.
func (b *Board) Platform() Platform {
	return b.platform
}

// RegisterTrapHandler installs the exception handler.
func (b *Board) RegisterTrapHandler(handler TrapHandler) {
	b.trapHandler = handler
}

// SATP returns the value of the satp register.
func (b *Board) SATP() uint32 {
	return b.satp
}

// WriteSATP sets the satp register. Like the real register, writing satp
// does not invalidate translations that are already cached.
func (b *Board) WriteSATP(value uint32) {
	b.satp = value
}

// FlushTLB performs an sfence.vma that drops all cached translations.
func (b *Board) FlushTLB() {
	b.tlb.Reset()
	b.numFlushes++
}

// NumTLBFlushes returns how many times the translation cache was flushed.
func (b *Board) NumTLBFlushes() int {
	return b.numFlushes
}

// ReadPhys reads physical memory.
func (b *Board) ReadPhys(addr uint32, n int) ([]byte, error) {
	if trap := b.checkPhys(addr, n, CauseLoadAccessFault); trap != nil {
		return nil, &TrapError{Trap: *trap}
	}

	return b.memory.Read(uint64(addr), uint64(n))
}

// WritePhys writes physical memory.
func (b *Board) WritePhys(addr uint32, data []byte) error {
	if trap := b.checkPhys(addr, len(data), CauseStoreAccessFault); trap != nil {
		return &TrapError{Trap: *trap}
	}

	return b.memory.Write(uint64(addr), data)
}

// ReadWord reads a physical word.
func (b *Board) ReadWord(addr uint32) (uint32, error) {
	if trap := b.checkPhys(addr, 4, CauseLoadAccessFault); trap != nil {
		return 0, &TrapError{Trap: *trap}
	}

	return b.memory.Read32(uint64(addr))
}

// WriteWord writes a physical word.
func (b *Board) WriteWord(addr uint32, value uint32) error {
	if trap := b.checkPhys(addr, 4, CauseStoreAccessFault); trap != nil {
		return &TrapError{Trap: *trap}
	}

	return b.memory.Write32(uint64(addr), value)
}

func (b *Board) checkPhys(addr uint32, n int, cause TrapCause) *Trap {
	for _, h := range b.holes {
		if h.contains(addr, n) {
			return &Trap{Cause: cause, Addr: addr}
		}
	}

	return nil
}

// Translate converts a virtual address to a physical address the way the
// CPU does it under the current satp.
func (b *Board) Translate(va uint32, access Access) (uint32, error) {
	pa, trap := b.translate(va, access)
	if trap != nil {
		return 0, &TrapError{Trap: *trap}
	}

	return pa, nil
}

func (b *Board) translate(va uint32, access Access) (uint32, *Trap) {
	if b.satp&SATPModeSv32 == 0 {
		return va, nil
	}

	vpn := uint64(va >> PageShift)
	offset := va & (PageSize - 1)

	wayID, found := b.tlb.Lookup(vpn)
	if found {
		entry := b.tlbEntries[wayID]
		if !access.permitted(entry.pte) {
			return 0, &Trap{Cause: access.pageFault(), Addr: va}
		}

		b.tlb.Visit(wayID)

		return entry.ppn<<PageShift | offset, nil
	}

	pa, pte, trap := b.walk(SATPRoot(b.satp), va, access)
	if trap != nil {
		return 0, trap
	}

	wayID, ok := b.tlb.Evict()
	if ok {
		b.tlb.Update(wayID, vpn)
		b.tlb.Visit(wayID)
		b.tlbEntries[wayID] = tlbEntry{ppn: pa >> PageShift, pte: pte}
	}

	return pa, nil
}

// Load reads n bytes at a virtual address as the CPU would. The access must
// not cross a page boundary.
func (b *Board) Load(va uint32, n int) ([]byte, error) {
	pa, trap := b.translate(va, AccessRead)
	if trap == nil {
		trap = b.checkPhys(pa, n, CauseLoadAccessFault)
	}

	if trap != nil {
		return make([]byte, n), b.raise(*trap)
	}

	return b.memory.Read(uint64(pa), uint64(n))
}

// StoreBytes writes data at a virtual address as the CPU would. The access
// must not cross a page boundary.
func (b *Board) StoreBytes(va uint32, data []byte) error {
	pa, trap := b.translate(va, AccessWrite)
	if trap == nil {
		trap = b.checkPhys(pa, len(data), CauseStoreAccessFault)
	}

	if trap != nil {
		return b.raise(*trap)
	}

	return b.memory.Write(uint64(pa), data)
}

// Store performs a word store from the CPU.
func (b *Board) Store(va uint32, value uint32) error {
	pa, trap := b.translate(va, AccessWrite)
	if trap == nil {
		trap = b.checkPhys(pa, 4, CauseStoreAccessFault)
	}

	if trap != nil {
		return b.raise(*trap)
	}

	return b.memory.Write32(uint64(pa), value)
}

// raise hands the trap to the registered handler. The handler is expected to
// skip the faulting instruction, so a handled trap is not an error.
func (b *Board) raise(trap Trap) error {
	if b.trapHandler == nil {
		return &TrapError{Trap: trap}
	}

	b.trapHandler(trap)

	return nil
}
