package pagetable

import (
	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// A Region is a range of pages that every address space maps to itself.
type Region struct {
	Name     string
	Base     uint32
	NumPages uint32
}

// End returns the first address after the region.
func (r Region) End() uint32 {
	return r.Base + r.NumPages*vm.PageSize
}

// Contains tells if the page lies in the region.
func (r Region) Contains(page vm.PageNo) bool {
	addr := uint64(page) << vm.PageShift
	return addr >= uint64(r.Base) && addr < uint64(r.Base)+uint64(r.NumPages)*vm.PageSize
}

// IdentityRegions are the device and memory ranges the kernel must reach in
// every address space. None of them crosses a megapage boundary, so each
// needs a single leaf table.
var IdentityRegions = []Region{
	{Name: "CLINT", Base: 0x02000000, NumPages: 16},
	{Name: "UART0", Base: 0x10013000, NumPages: 1},
	{Name: "BootROM", Base: 0x20400000, NumPages: 1024},
	{Name: "DiskImage", Base: 0x20800000, NumPages: 1024},
	{Name: "ITIM", Base: 0x08000000, NumPages: 8},
	{Name: "DTIM", Base: 0x80000000, NumPages: 1024},
}

func identityRegionOf(page vm.PageNo) (Region, bool) {
	for _, r := range IdentityRegions {
		if r.Contains(page) {
			return r, true
		}
	}

	return Region{}, false
}

func init() {
	for _, r := range IdentityRegions {
		if hardware.VPN1(r.Base) != hardware.VPN1(r.End()-1) {
			panic("identity region " + r.Name + " crosses a megapage")
		}
	}
}
