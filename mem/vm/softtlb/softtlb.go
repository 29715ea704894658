// Package softtlb implements translation without hardware support. All
// processes use the same physical range for their pages, so switching
// processes copies the old process's pages out and the new process's pages
// in.
package softtlb

import (
	"fmt"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/hooking"
	"github.com/sarchlab/egosmmu/mem/frame"
	"github.com/sarchlab/egosmmu/mem/paging"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// Backend is the software TLB.
type Backend struct {
	hooking.HookableBase

	name   string
	table  *frame.Table
	device paging.Device
	memory hardware.PhysicalMemory

	active vm.PID
}

// Name returns the name of the backend.
func (b *Backend) Name() string {
	return b.name
}

// Active returns the process whose pages are in place.
func (b *Backend) Active() vm.PID {
	return b.active
}

// Map records that frame holds page of pid. If pid is active the page is
// copied in right away, otherwise at the next switch to pid.
func (b *Backend) Map(pid vm.PID, page vm.PageNo, id vm.FrameID) error {
	err := b.table.CheckMap(id, pid, page)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}

	prev, _ := b.table.Get(id)
	if b.active != vm.NoPID && prev.Mapped && prev.Owner == b.active {
		err = b.device.Write(id, prev.PageNo)
		if err != nil {
			return fmt.Errorf("%s: write back frame %d of pid %d: %w",
				b.name, id, prev.Owner, err)
		}
	}

	err = b.table.Map(id, pid, page)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    vm.HookPosMap,
		Item:   vm.FrameEvent{PID: pid, Frame: id, PageNo: page},
	})

	if pid != b.active {
		return nil
	}

	err = b.copyIn(id, page)
	if err != nil {
		return fmt.Errorf("%s: read in frame %d of pid %d: %w",
			b.name, id, pid, err)
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    vm.HookPosReadIn,
		Item:   vm.FrameEvent{PID: pid, Frame: id, PageNo: page},
	})

	return nil
}

// Switch saves the pages of the active process and loads the pages of pid.
func (b *Backend) Switch(pid vm.PID) error {
	if !pid.Valid() {
		return fmt.Errorf("%s: switch: %w", b.name, vm.ErrInvalidID)
	}

	if pid == b.active {
		return nil
	}

	from := b.active

	if from != vm.NoPID {
		err := b.writeBack(from)
		if err != nil {
			return err
		}
	}

	err := b.readIn(pid)
	if err != nil {
		return err
	}

	b.active = pid

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    vm.HookPosSwitch,
		Item:   vm.SwitchEvent{From: from, To: pid},
	})

	return nil
}

func (b *Backend) writeBack(pid vm.PID) error {
	for _, id := range b.table.MappedFramesOf(pid) {
		f, _ := b.table.Get(id)

		err := b.device.Write(id, f.PageNo)
		if err != nil {
			return fmt.Errorf("%s: write back frame %d of pid %d: %w",
				b.name, id, pid, err)
		}

		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    vm.HookPosWriteBack,
			Item:   vm.FrameEvent{PID: pid, Frame: id, PageNo: f.PageNo},
		})
	}

	return nil
}

func (b *Backend) readIn(pid vm.PID) error {
	for _, id := range b.table.MappedFramesOf(pid) {
		f, _ := b.table.Get(id)

		err := b.copyIn(id, f.PageNo)
		if err != nil {
			return fmt.Errorf("%s: read in frame %d of pid %d: %w",
				b.name, id, pid, err)
		}

		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    vm.HookPosReadIn,
			Item:   vm.FrameEvent{PID: pid, Frame: id, PageNo: f.PageNo},
		})
	}

	return nil
}

func (b *Backend) copyIn(id vm.FrameID, page vm.PageNo) error {
	src, err := b.device.Read(id, false)
	if err != nil {
		return err
	}

	data, err := b.memory.ReadPhys(src, vm.PageSize)
	if err != nil {
		return err
	}

	return b.memory.WritePhys(page.Addr(), data)
}

// Detach forgets pid if it is the active process. Its pages stay where they
// are until another process is switched in, and are not written back.
func (b *Backend) Detach(pid vm.PID) {
	if pid.Valid() && b.active == pid {
		b.active = vm.NoPID
	}
}
