package frame

import (
	"fmt"

	"github.com/sarchlab/egosmmu/hooking"
	"github.com/sarchlab/egosmmu/mem/paging"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// Allocator hands out frames and takes them back when a process exits. It
// also remembers the root page table of each process.
type Allocator struct {
	hooking.HookableBase

	name   string
	table  *Table
	device paging.Device

	roots   [vm.MaxNumProcess]uint32
	hasRoot [vm.MaxNumProcess]bool
}

// NewAllocator creates an allocator over an empty table.
func NewAllocator(name string, device paging.Device) *Allocator {
	if device == nil {
		panic("frame allocator requires a paging device")
	}

	return &Allocator{
		name:   name,
		table:  NewTable(),
		device: device,
	}
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// Table returns the frame table.
func (a *Allocator) Table() *Table {
	return a.table
}

// Device returns the paging device that stores the frames.
func (a *Allocator) Device() paging.Device {
	return a.device
}

// NumFree returns how many frames can still be allocated.
func (a *Allocator) NumFree() int {
	return vm.NumFrames - a.table.NumInUse()
}

// Alloc takes the free frame with the smallest id. It returns the id and the
// physical address where the frame's contents currently live.
func (a *Allocator) Alloc() (vm.FrameID, uint32, error) {
	id, found := a.table.LowestFree()
	if !found {
		return 0, 0, fmt.Errorf("%s: no more available frames: %w",
			a.name, vm.ErrResourceExhausted)
	}

	addr, err := a.device.Read(id, true)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: alloc frame %d: %w", a.name, id, err)
	}

	a.table.markInUse(id)

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    vm.HookPosFrameAlloc,
		Item:   vm.FrameEvent{PID: vm.NoPID, Frame: id},
	})

	return id, addr, nil
}

// Free returns every frame of pid to the pool and forgets pid's root page
// table. Freeing a process that owns nothing does nothing.
func (a *Allocator) Free(pid vm.PID) {
	if !pid.Valid() {
		return
	}

	for _, id := range a.table.FramesOf(pid) {
		f := a.table.frames[id]

		a.device.InvalidateCache(id)
		a.table.release(id)

		a.InvokeHook(hooking.HookCtx{
			Domain: a,
			Pos:    vm.HookPosFrameFree,
			Item:   vm.FrameEvent{PID: pid, Frame: id, PageNo: f.PageNo},
		})
	}

	a.roots[pid] = 0
	a.hasRoot[pid] = false
}

// SetRoot records the physical address of pid's root page table.
func (a *Allocator) SetRoot(pid vm.PID, root uint32) error {
	if !pid.Valid() {
		return fmt.Errorf("%s: set root: %w", a.name, vm.ErrInvalidID)
	}

	a.roots[pid] = root
	a.hasRoot[pid] = true

	return nil
}

// Root returns the physical address of pid's root page table.
func (a *Allocator) Root(pid vm.PID) (uint32, bool) {
	if !pid.Valid() || !a.hasRoot[pid] {
		return 0, false
	}

	return a.roots[pid], true
}
