package paging

import (
	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/lru"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// Default layout of the frame cache and of the paging area on disk.
const (
	DefaultCacheBase = uint32(0x80400000)
	DefaultDiskBase  = uint64(1 << 20)

	// ArtyNumCacheSlots is how many frames fit in the Arty board's memory.
	// QEMU caches the whole pool.
	ArtyNumCacheSlots = 28
)

// A Builder can build paging devices.
type Builder struct {
	memory        hardware.PhysicalMemory
	disk          Disk
	diskBase      uint64
	cacheBase     uint32
	numCacheSlots int
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		diskBase:      DefaultDiskBase,
		cacheBase:     DefaultCacheBase,
		numCacheSlots: vm.NumFrames,
	}
}

// WithMemory sets the physical memory that holds the cache slots.
func (b Builder) WithMemory(m hardware.PhysicalMemory) Builder {
	b.memory = m
	return b
}

// WithDisk sets the disk that stores evicted frames.
func (b Builder) WithDisk(d Disk) Builder {
	b.disk = d
	return b
}

// WithDiskBase sets the disk offset of frame 0.
func (b Builder) WithDiskBase(base uint64) Builder {
	b.diskBase = base
	return b
}

// WithCacheBase sets the physical address of the first cache slot.
func (b Builder) WithCacheBase(base uint32) Builder {
	b.cacheBase = base
	return b
}

// WithNumCacheSlots sets how many frames can be cached at once.
func (b Builder) WithNumCacheSlots(n int) Builder {
	b.numCacheSlots = n
	return b
}

// Build creates a paging device.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	c := &Comp{
		name:       name,
		memory:     b.memory,
		disk:       b.disk,
		diskBase:   b.diskBase,
		cacheBase:  b.cacheBase,
		slots:      lru.NewSet(b.numCacheSlots),
		slotFrames: make([]vm.FrameID, b.numCacheSlots),
	}

	for i := range c.slotFrames {
		c.slotFrames[i] = noFrame
	}

	return c
}

func (b Builder) mustBeValid() {
	if b.memory == nil {
		panic("paging device requires a physical memory")
	}

	if b.disk == nil {
		panic("paging device requires a disk")
	}

	if b.numCacheSlots <= 0 || b.numCacheSlots > vm.NumFrames {
		panic("number of cache slots must be in [1, NumFrames]")
	}

	if b.cacheBase%vm.PageSize != 0 {
		panic("cache base must be page aligned")
	}

	cacheEnd := uint64(b.cacheBase) + uint64(b.numCacheSlots)*vm.PageSize
	if cacheEnd > hardware.PhysicalAddressSpace {
		panic("cache does not fit in the physical address space")
	}
}
