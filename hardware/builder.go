package hardware

import (
	"github.com/sarchlab/egosmmu/mem/lru"
)

// PhysicalAddressSpace is the size of the RV32 physical address space.
const PhysicalAddressSpace = uint64(1) << 32

// artyHoles lists the physical ranges that are not backed by anything on the
// Arty board. Accessing them raises an access fault; QEMU backs them with its
// boot ROM.
var artyHoles = []Region{
	{Base: 0x0, Size: 0x02000000},
}

// A Builder can build boards.
type Builder struct {
	platform      Platform
	numTLBEntries int
	memory        *Storage
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		platform:      PlatformQEMU,
		numTLBEntries: 32,
	}
}

// WithPlatform sets the kind of board to build.
func (b Builder) WithPlatform(p Platform) Builder {
	b.platform = p
	return b
}

// WithNumTLBEntries sets the number of translations the board caches.
func (b Builder) WithNumTLBEntries(n int) Builder {
	b.numTLBEntries = n
	return b
}

// WithMemory sets the storage that backs the physical memory.
func (b Builder) WithMemory(s *Storage) Builder {
	b.memory = s
	return b
}

// Build creates a board.
func (b Builder) Build(name string) *Board {
	board := &Board{
		name:       name,
		platform:   b.platform,
		memory:     b.memory,
		tlb:        lru.NewSet(b.numTLBEntries),
		tlbEntries: make([]tlbEntry, b.numTLBEntries),
	}

	if board.memory == nil {
		board.memory = NewStorage(PhysicalAddressSpace)
	}

	if b.platform == PlatformArty {
		board.holes = append(board.holes, artyHoles...)
	}

	return board
}
