// Package pagetable implements translation with Sv32 page tables walked by
// the hardware. Every process gets its own root table, and switching
// processes only rewrites satp.
package pagetable

import (
	"fmt"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/hooking"
	"github.com/sarchlab/egosmmu/mem/frame"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// UserPageFlags are the flags of the entries that map process pages.
const UserPageFlags = hardware.PTEValidRWX | hardware.PTEUser |
	hardware.PTEAccessed | hardware.PTEDirty

// Hardware is what the backend needs from the board.
type Hardware interface {
	hardware.PhysicalMemory
	hardware.TranslationRegister
}

// Backend is the page-table translation backend.
type Backend struct {
	hooking.HookableBase

	name      string
	allocator *frame.Allocator
	hw        Hardware

	active vm.PID
}

// Name returns the name of the backend.
func (b *Backend) Name() string {
	return b.name
}

// Active returns the process whose root table is in satp.
func (b *Backend) Active() vm.PID {
	return b.active
}

// IdentityMap builds the address space of pid: a root table plus the leaf
// tables that map every identity region to itself. It returns the physical
// address of the root. If pid already has an address space, its root is
// returned unchanged.
func (b *Backend) IdentityMap(pid vm.PID) (uint32, error) {
	if !pid.Valid() {
		return 0, fmt.Errorf("%s: identity map: %w", b.name, vm.ErrInvalidID)
	}

	if root, found := b.allocator.Root(pid); found {
		return root, nil
	}

	root, err := b.allocTable(pid)
	if err != nil {
		return 0, err
	}

	for _, r := range IdentityRegions {
		err = b.mapIdentity(pid, root, r)
		if err != nil {
			return 0, fmt.Errorf("%s: identity map %s: %w", b.name, r.Name, err)
		}
	}

	err = b.allocator.SetRoot(pid, root)
	if err != nil {
		return 0, err
	}

	return root, nil
}

func (b *Backend) mapIdentity(pid vm.PID, root uint32, r Region) error {
	leaf, err := b.leafTable(pid, root, r.Base)
	if err != nil {
		return err
	}

	for i := uint32(0); i < r.NumPages; i++ {
		va := r.Base + i*vm.PageSize

		err = b.hw.WriteWord(entryAddr(leaf, hardware.VPN0(va)),
			hardware.MakePTE(va, hardware.PTEValidRWX))
		if err != nil {
			return err
		}
	}

	return nil
}

// Map points page of pid at the frame. The frame's previous mapping, if
// any, is removed.
func (b *Backend) Map(pid vm.PID, page vm.PageNo, id vm.FrameID) error {
	table := b.allocator.Table()

	err := table.CheckMap(id, pid, page)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}

	if r, found := identityRegionOf(page); found {
		return fmt.Errorf("%s: page 0x%x lies in %s: %w",
			b.name, page, r.Name, vm.ErrProtocolViolation)
	}

	root, err := b.IdentityMap(pid)
	if err != nil {
		return err
	}

	pa, err := b.allocator.Device().Read(id, false)
	if err != nil {
		return fmt.Errorf("%s: locate frame %d: %w", b.name, id, err)
	}

	leaf, err := b.leafTable(pid, root, page.Addr())
	if err != nil {
		return fmt.Errorf("%s: map page 0x%x: %w", b.name, page, err)
	}

	prev, _ := table.Get(id)
	if prev.Mapped {
		err = b.unmap(prev.Owner, prev.PageNo)
		if err != nil {
			return err
		}
	}

	err = b.hw.WriteWord(entryAddr(leaf, hardware.VPN0(page.Addr())),
		hardware.MakePTE(pa, UserPageFlags))
	if err != nil {
		return fmt.Errorf("%s: map page 0x%x: %w", b.name, page, err)
	}

	err = table.Map(id, pid, page)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}

	if pid == b.active || (prev.Mapped && prev.Owner == b.active) {
		b.hw.FlushTLB()
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    vm.HookPosMap,
		Item:   vm.FrameEvent{PID: pid, Frame: id, PageNo: page},
	})

	return nil
}

func (b *Backend) unmap(pid vm.PID, page vm.PageNo) error {
	root, found := b.allocator.Root(pid)
	if !found {
		return nil
	}

	rootEntry, err := b.hw.ReadWord(entryAddr(root, hardware.VPN1(page.Addr())))
	if err != nil {
		return err
	}

	if rootEntry&hardware.PTEValid == 0 || hardware.IsLeaf(rootEntry) {
		return nil
	}

	return b.hw.WriteWord(
		entryAddr(hardware.PTEAddr(rootEntry), hardware.VPN0(page.Addr())), 0)
}

// Switch installs the root table of pid in satp and flushes the cached
// translations.
func (b *Backend) Switch(pid vm.PID) error {
	if !pid.Valid() {
		return fmt.Errorf("%s: switch: %w", b.name, vm.ErrInvalidID)
	}

	if pid == b.active {
		return nil
	}

	root, err := b.IdentityMap(pid)
	if err != nil {
		return err
	}

	b.hw.WriteSATP(hardware.MakeSATP(root))
	b.hw.FlushTLB()

	from := b.active
	b.active = pid

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    vm.HookPosSwitch,
		Item:   vm.SwitchEvent{From: from, To: pid},
	})

	return nil
}

// Detach stops translating with the tables of pid before they are freed.
// The kernel's address space is installed instead, or translation is turned
// off if the kernel has none.
func (b *Backend) Detach(pid vm.PID) {
	if !pid.Valid() || b.active != pid {
		return
	}

	b.active = vm.NoPID

	satp := uint32(0)
	if root, found := b.allocator.Root(vm.KernelPID); found && pid != vm.KernelPID {
		satp = hardware.MakeSATP(root)
	}

	b.hw.WriteSATP(satp)
	b.hw.FlushTLB()
}

func (b *Backend) allocTable(pid vm.PID) (uint32, error) {
	id, addr, err := b.allocator.Alloc()
	if err != nil {
		return 0, err
	}

	err = b.allocator.Table().Claim(id, pid)
	if err != nil {
		return 0, err
	}

	return addr, nil
}

// leafTable returns the leaf table that covers va, allocating it if the
// root has no entry for va's megapage.
func (b *Backend) leafTable(pid vm.PID, root uint32, va uint32) (uint32, error) {
	slot := entryAddr(root, hardware.VPN1(va))

	entry, err := b.hw.ReadWord(slot)
	if err != nil {
		return 0, err
	}

	if entry&hardware.PTEValid != 0 {
		if hardware.IsLeaf(entry) {
			return 0, fmt.Errorf("va 0x%x is in a megapage: %w",
				va, vm.ErrProtocolViolation)
		}

		return hardware.PTEAddr(entry), nil
	}

	leaf, err := b.allocTable(pid)
	if err != nil {
		return 0, err
	}

	err = b.hw.WriteWord(slot, hardware.MakePTE(leaf, hardware.PTENextLevel))
	if err != nil {
		return 0, err
	}

	return leaf, nil
}

func entryAddr(table uint32, index uint32) uint32 {
	return table + index*4
}
