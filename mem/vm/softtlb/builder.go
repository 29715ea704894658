package softtlb

import (
	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/frame"
	"github.com/sarchlab/egosmmu/mem/paging"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// A Builder can build software TLB backends.
type Builder struct {
	table  *frame.Table
	device paging.Device
	memory hardware.PhysicalMemory
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithFrameTable sets the frame table that records the mappings.
func (b Builder) WithFrameTable(t *frame.Table) Builder {
	b.table = t
	return b
}

// WithPagingDevice sets the device that stores the frames.
func (b Builder) WithPagingDevice(d paging.Device) Builder {
	b.device = d
	return b
}

// WithMemory sets the physical memory that pages are copied in and out of.
func (b Builder) WithMemory(m hardware.PhysicalMemory) Builder {
	b.memory = m
	return b
}

// Build creates a software TLB backend.
func (b Builder) Build(name string) *Backend {
	if b.table == nil || b.device == nil || b.memory == nil {
		panic("software TLB is not fully configured")
	}

	return &Backend{
		name:   name,
		table:  b.table,
		device: b.device,
		memory: b.memory,
		active: vm.NoPID,
	}
}
