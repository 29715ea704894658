// Package paging simulates the paging device, the store that keeps the
// contents of every physical frame. Frames live in a cache of slots in
// physical memory and spill to a disk when the cache is full.
package paging

import (
	"fmt"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/lru"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// Device is the interface the MMU consumes.
type Device interface {
	// Init prepares the device. It does not drop frames that are already
	// cached.
	Init() error

	// InvalidateCache discards the cached copy of a frame without writing
	// it back.
	InvalidateCache(frame vm.FrameID)

	// Write copies the live page at page's virtual address into the frame.
	Write(frame vm.FrameID, page vm.PageNo) error

	// Read returns the physical address of the cached copy of a frame. With
	// allocOnly, the previous contents are irrelevant and the returned copy
	// is zero-filled instead of being fetched from disk.
	Read(frame vm.FrameID, allocOnly bool) (uint32, error)
}

// Disk is the durable store behind the cache.
type Disk interface {
	Read(address uint64, length uint64) ([]byte, error)
	Write(address uint64, data []byte) error
}

const noFrame = vm.FrameID(-1)

// Comp is the simulated paging device.
type Comp struct {
	name string

	memory    hardware.PhysicalMemory
	disk      Disk
	diskBase  uint64
	cacheBase uint32

	slots        lru.Set
	slotFrames   []vm.FrameID
	initialized  bool
	numEvictions int
}

// Name returns the name of the device.
func (c *Comp) Name() string {
	return c.name
}

// NumCacheSlots returns how many frames can be cached at once.
func (c *Comp) NumCacheSlots() int {
	return len(c.slotFrames)
}

// NumEvictions returns how many cached frames were written to disk to make
// room for others.
func (c *Comp) NumEvictions() int {
	return c.numEvictions
}

// IsCached tells if a frame currently has a cache slot.
func (c *Comp) IsCached(frame vm.FrameID) bool {
	_, found := c.slots.Lookup(uint64(frame))
	return found
}

// Init checks that the disk can hold every frame.
func (c *Comp) Init() error {
	lastFrame := c.diskAddr(vm.NumFrames - 1)

	_, err := c.disk.Read(lastFrame, vm.PageSize)
	if err != nil {
		return fmt.Errorf("%s: disk cannot hold %d frames: %w",
			c.name, vm.NumFrames, err)
	}

	c.initialized = true

	return nil
}

// Initialized tells if Init has completed.
func (c *Comp) Initialized() bool {
	return c.initialized
}

// InvalidateCache drops the cached copy of a frame.
func (c *Comp) InvalidateCache(frame vm.FrameID) {
	slot, found := c.slots.Lookup(uint64(frame))
	if !found {
		return
	}

	c.slots.Invalidate(slot)
	c.slotFrames[slot] = noFrame
}

// Write copies the page at page's address into the frame's cache slot.
func (c *Comp) Write(frame vm.FrameID, page vm.PageNo) error {
	if !page.Valid() {
		return fmt.Errorf("%s: write page 0x%x: %w", c.name, page, vm.ErrInvalidID)
	}

	dst, err := c.Read(frame, true)
	if err != nil {
		return err
	}

	data, err := c.memory.ReadPhys(page.Addr(), vm.PageSize)
	if err != nil {
		return fmt.Errorf("%s: write frame %d: %w", c.name, frame, err)
	}

	return c.memory.WritePhys(dst, data)
}

// Read returns the address of the frame's cache slot, filling the slot if
// the frame is not cached.
func (c *Comp) Read(frame vm.FrameID, allocOnly bool) (uint32, error) {
	if !frame.Valid() {
		return 0, fmt.Errorf("%s: read frame %d: %w", c.name, frame, vm.ErrInvalidID)
	}

	slot, found := c.slots.Lookup(uint64(frame))
	if !found {
		var err error

		slot, err = c.fill(frame, allocOnly)
		if err != nil {
			return 0, err
		}
	}

	c.slots.Visit(slot)

	return c.slotAddr(slot), nil
}

func (c *Comp) fill(frame vm.FrameID, allocOnly bool) (int, error) {
	slot, ok := c.slots.Evict()
	if !ok {
		return 0, fmt.Errorf("%s: no cache slot: %w", c.name, vm.ErrResourceExhausted)
	}

	if victim := c.slotFrames[slot]; victim != noFrame {
		err := c.evict(slot, victim)
		if err != nil {
			return 0, err
		}
	}

	var (
		data []byte
		err  error
	)

	if allocOnly {
		data = make([]byte, vm.PageSize)
	} else {
		data, err = c.disk.Read(c.diskAddr(frame), vm.PageSize)
		if err != nil {
			return 0, fmt.Errorf("%s: load frame %d: %w", c.name, frame, err)
		}
	}

	err = c.memory.WritePhys(c.slotAddr(slot), data)
	if err != nil {
		return 0, fmt.Errorf("%s: fill frame %d: %w", c.name, frame, err)
	}

	c.slots.Update(slot, uint64(frame))
	c.slotFrames[slot] = frame

	return slot, nil
}

func (c *Comp) evict(slot int, victim vm.FrameID) error {
	data, err := c.memory.ReadPhys(c.slotAddr(slot), vm.PageSize)
	if err != nil {
		return fmt.Errorf("%s: evict frame %d: %w", c.name, victim, err)
	}

	err = c.disk.Write(c.diskAddr(victim), data)
	if err != nil {
		return fmt.Errorf("%s: evict frame %d: %w", c.name, victim, err)
	}

	c.slots.Invalidate(slot)
	c.slotFrames[slot] = noFrame
	c.numEvictions++

	return nil
}

func (c *Comp) slotAddr(slot int) uint32 {
	return c.cacheBase + uint32(slot)*vm.PageSize
}

func (c *Comp) diskAddr(frame vm.FrameID) uint64 {
	return c.diskBase + uint64(frame)*vm.PageSize
}
