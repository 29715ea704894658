package pagetable

import (
	"github.com/sarchlab/egosmmu/mem/frame"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// A Builder can build page-table backends.
type Builder struct {
	allocator *frame.Allocator
	hw        Hardware
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithAllocator sets the allocator that provides frames for the tables.
func (b Builder) WithAllocator(a *frame.Allocator) Builder {
	b.allocator = a
	return b
}

// WithHardware sets the board whose satp the backend drives.
func (b Builder) WithHardware(hw Hardware) Builder {
	b.hw = hw
	return b
}

// Build creates a page-table backend.
func (b Builder) Build(name string) *Backend {
	if b.allocator == nil || b.hw == nil {
		panic("page-table backend is not fully configured")
	}

	return &Backend{
		name:      name,
		allocator: b.allocator,
		hw:        b.hw,
		active:    vm.NoPID,
	}
}
