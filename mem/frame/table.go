// Package frame manages the pool of physical frames: which ones are taken,
// by whom, and for which virtual page.
package frame

import (
	"fmt"

	"github.com/sarchlab/egosmmu/mem/vm"
)

// Frame is the state of one physical frame.
type Frame struct {
	InUse bool
	Owner vm.PID

	// PageNo is the virtual page the frame holds. It is only meaningful if
	// Mapped is set. A frame that is owned but not mapped stores page tables.
	PageNo vm.PageNo
	Mapped bool
}

// A Table keeps the state of every frame.
type Table struct {
	frames [vm.NumFrames]Frame
}

// NewTable creates a table where every frame is free.
func NewTable() *Table {
	t := &Table{}
	for i := range t.frames {
		t.frames[i] = freeFrame()
	}

	return t
}

func freeFrame() Frame {
	return Frame{Owner: vm.NoPID}
}

// Get returns the state of a frame.
func (t *Table) Get(id vm.FrameID) (Frame, error) {
	if !id.Valid() {
		return Frame{}, fmt.Errorf("frame %d: %w", id, vm.ErrInvalidID)
	}

	return t.frames[id], nil
}

// LowestFree returns the free frame with the smallest id.
func (t *Table) LowestFree() (vm.FrameID, bool) {
	for i := range t.frames {
		if !t.frames[i].InUse {
			return vm.FrameID(i), true
		}
	}

	return 0, false
}

// NumInUse returns how many frames are taken.
func (t *Table) NumInUse() int {
	n := 0

	for i := range t.frames {
		if t.frames[i].InUse {
			n++
		}
	}

	return n
}

func (t *Table) markInUse(id vm.FrameID) {
	t.frames[id] = Frame{InUse: true, Owner: vm.NoPID}
}

func (t *Table) release(id vm.FrameID) {
	t.frames[id] = freeFrame()
}

// Claim hands an allocated frame to pid without mapping it to a page. The
// page-table backend stores its tables in claimed frames.
func (t *Table) Claim(id vm.FrameID, pid vm.PID) error {
	if err := t.mustBeTakenBy(id, pid); err != nil {
		return err
	}

	f := &t.frames[id]
	if f.Owner != vm.NoPID {
		return fmt.Errorf("claim frame %d: already owned by pid %d: %w",
			id, f.Owner, vm.ErrProtocolViolation)
	}

	f.Owner = pid

	return nil
}

// Map records that the frame holds page of pid. A frame can be remapped. A
// page can be held by at most one frame.
func (t *Table) Map(id vm.FrameID, pid vm.PID, page vm.PageNo) error {
	if err := t.CheckMap(id, pid, page); err != nil {
		return err
	}

	t.frames[id] = Frame{InUse: true, Owner: pid, PageNo: page, Mapped: true}

	return nil
}

// CheckMap tells if Map would succeed, without changing anything.
func (t *Table) CheckMap(id vm.FrameID, pid vm.PID, page vm.PageNo) error {
	if err := t.mustBeTakenBy(id, pid); err != nil {
		return err
	}

	if !page.Valid() {
		return fmt.Errorf("map page 0x%x: %w", page, vm.ErrInvalidID)
	}

	f := &t.frames[id]
	if f.Owner != vm.NoPID && !f.Mapped {
		return fmt.Errorf("map frame %d: it holds page tables of pid %d: %w",
			id, f.Owner, vm.ErrProtocolViolation)
	}

	if holder, found := t.Lookup(pid, page); found && holder != id {
		return fmt.Errorf("map page 0x%x of pid %d: already held by frame %d: %w",
			page, pid, holder, vm.ErrProtocolViolation)
	}

	return nil
}

func (t *Table) mustBeTakenBy(id vm.FrameID, pid vm.PID) error {
	if !id.Valid() {
		return fmt.Errorf("frame %d: %w", id, vm.ErrInvalidID)
	}

	if !pid.Valid() {
		return fmt.Errorf("pid %d: %w", pid, vm.ErrInvalidID)
	}

	if !t.frames[id].InUse {
		return fmt.Errorf("frame %d is not allocated: %w",
			id, vm.ErrProtocolViolation)
	}

	return nil
}

// Lookup finds the frame that holds page of pid.
func (t *Table) Lookup(pid vm.PID, page vm.PageNo) (vm.FrameID, bool) {
	for i := range t.frames {
		f := &t.frames[i]
		if f.InUse && f.Mapped && f.Owner == pid && f.PageNo == page {
			return vm.FrameID(i), true
		}
	}

	return 0, false
}

// FramesOf returns, in increasing order, the frames owned by pid.
func (t *Table) FramesOf(pid vm.PID) []vm.FrameID {
	var ids []vm.FrameID

	for i := range t.frames {
		f := &t.frames[i]
		if f.InUse && f.Owner == pid {
			ids = append(ids, vm.FrameID(i))
		}
	}

	return ids
}

// MappedFramesOf returns, in increasing order, the frames that hold pages of
// pid.
func (t *Table) MappedFramesOf(pid vm.PID) []vm.FrameID {
	var ids []vm.FrameID

	for i := range t.frames {
		f := &t.frames[i]
		if f.InUse && f.Mapped && f.Owner == pid {
			ids = append(ids, vm.FrameID(i))
		}
	}

	return ids
}

// Snapshot copies the state of every frame.
func (t *Table) Snapshot() []Frame {
	frames := make([]Frame, vm.NumFrames)
	copy(frames, t.frames[:])

	return frames
}
