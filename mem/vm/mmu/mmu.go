// Package mmu is the kernel-wide memory-management interface. At boot it
// asks which translation mechanism to use, checks that the board supports
// it, and then serves allocate, free, map, and switch with the chosen
// backend.
package mmu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/hooking"
	"github.com/sarchlab/egosmmu/mem/frame"
	"github.com/sarchlab/egosmmu/mem/paging"
	"github.com/sarchlab/egosmmu/mem/vm"
	"github.com/sarchlab/egosmmu/mem/vm/pagetable"
	"github.com/sarchlab/egosmmu/mem/vm/softtlb"
)

// probeAddr faults on boards without supervisor mode and is plain memory
// on QEMU.
const probeAddr = 0x1000

// Comp is the MMU.
type Comp struct {
	hooking.HookableBase

	lock sync.Mutex

	name    string
	machine hardware.Machine
	device  paging.Device
	console io.ReadWriter
	logger  *log.Logger

	hasPresetMode bool
	presetMode    vm.Mode

	mode      vm.Mode
	platform  hardware.Platform
	allocator *frame.Allocator
	backend   vm.Backend
	installed bool
}

// Name returns the name of the MMU.
func (c *Comp) Name() string {
	return c.name
}

// Init brings up the MMU. It must be called once, before any other
// operation.
func (c *Comp) Init() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.installed {
		return fmt.Errorf("%s: already initialized: %w",
			c.name, vm.ErrProtocolViolation)
	}

	mode, err := c.chooseMode()
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	platform, err := c.detectPlatform()
	if err != nil {
		return fmt.Errorf("%s: probe platform: %w", c.name, err)
	}

	if mode == vm.ModePageTable && !platform.SupportsSupervisorMode() {
		c.logger.Printf("[CRITICAL] %s board doesn't support page tables (supervisor mode).",
			platform)

		return fmt.Errorf("%s: %s translation on %s: %w",
			c.name, mode, platform, vm.ErrConfigurationConflict)
	}

	if mode == vm.ModePageTable && !c.keepsAllFramesResident() {
		c.logger.Printf("[CRITICAL] Page tables need all %d frames resident in the paging cache.",
			vm.NumFrames)

		return fmt.Errorf("%s: %s translation with a partial frame cache: %w",
			c.name, mode, vm.ErrConfigurationConflict)
	}

	c.mode = mode
	c.platform = platform
	c.install()

	if pt, ok := c.backend.(*pagetable.Backend); ok {
		_, err = pt.IdentityMap(vm.KernelPID)
		if err != nil {
			return fmt.Errorf("%s: map kernel: %w", c.name, err)
		}
	}

	err = c.device.Init()
	if err != nil {
		return fmt.Errorf("%s: init paging device: %w", c.name, err)
	}

	c.installed = true

	return nil
}

func (c *Comp) chooseMode() (vm.Mode, error) {
	if c.hasPresetMode {
		c.logger.Printf("[INFO] %s translation is chosen", c.presetMode)
		return c.presetMode, nil
	}

	c.logger.Printf("[CRITICAL] Choose a memory translation mechanism:")
	fmt.Fprint(c.console, "  Enter 0: page tables  (QEMU)\r\n")
	fmt.Fprint(c.console, "  Enter 1: software TLB (QEMU or Arty board)\r\n")

	buf := make([]byte, 1)

	for {
		n, err := c.console.Read(buf)
		if n == 1 && (buf[0] == '0' || buf[0] == '1') {
			mode := vm.Mode(buf[0] - '0')
			c.logger.Printf("[INFO] %s translation is chosen", mode)

			return mode, nil
		}

		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("console closed before a translation was chosen: %w",
				vm.ErrProtocolViolation)
		}

		if err != nil {
			return 0, fmt.Errorf("read console: %w", err)
		}
	}
}

func (c *Comp) detectPlatform() (hardware.Platform, error) {
	platform := hardware.PlatformQEMU

	c.machine.RegisterTrapHandler(func(hardware.Trap) {
		platform = hardware.PlatformArty
	})
	defer c.machine.RegisterTrapHandler(nil)

	err := c.machine.Store(probeAddr, 1)
	if err != nil {
		return platform, err
	}

	return platform, nil
}

// residentCache is a paging device that reports how many frames it can
// hold at once. Devices that do not report it are assumed to hold all.
type residentCache interface {
	NumCacheSlots() int
}

func (c *Comp) keepsAllFramesResident() bool {
	cache, ok := c.device.(residentCache)
	if !ok {
		return true
	}

	return cache.NumCacheSlots() >= vm.NumFrames
}

func (c *Comp) install() {
	c.allocator = frame.NewAllocator(c.name+".Allocator", c.device)

	switch c.mode {
	case vm.ModePageTable:
		c.backend = pagetable.MakeBuilder().
			WithAllocator(c.allocator).
			WithHardware(c.machine).
			Build(c.name + ".PageTable")
	default:
		c.backend = softtlb.MakeBuilder().
			WithFrameTable(c.allocator.Table()).
			WithPagingDevice(c.device).
			WithMemory(c.machine).
			Build(c.name + ".SoftTLB")
	}

	for _, h := range c.Hooks() {
		c.allocator.AcceptHook(h)
		c.backend.AcceptHook(h)
	}
}

// AcceptHook attaches a hook to the MMU and to everything it installs.
func (c *Comp) AcceptHook(hook hooking.Hook) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.HookableBase.AcceptHook(hook)

	if c.allocator != nil {
		c.allocator.AcceptHook(hook)
		c.backend.AcceptHook(hook)
	}
}

// Alloc takes a free frame. It returns the frame and the physical address
// of its contents.
func (c *Comp) Alloc() (vm.FrameID, uint32, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.mustBeInstalled("alloc"); err != nil {
		return 0, 0, err
	}

	return c.allocator.Alloc()
}

// Free releases every frame of pid.
func (c *Comp) Free(pid vm.PID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.installed {
		return
	}

	c.backend.Detach(pid)
	c.allocator.Free(pid)
}

// Map makes frame hold page of pid.
func (c *Comp) Map(pid vm.PID, page vm.PageNo, id vm.FrameID) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.mustBeInstalled("map"); err != nil {
		return err
	}

	return c.backend.Map(pid, page, id)
}

// Switch makes the pages of pid reachable.
func (c *Comp) Switch(pid vm.PID) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.mustBeInstalled("switch"); err != nil {
		return err
	}

	return c.backend.Switch(pid)
}

func (c *Comp) mustBeInstalled(op string) error {
	if !c.installed {
		return fmt.Errorf("%s: %s before init: %w",
			c.name, op, vm.ErrProtocolViolation)
	}

	return nil
}

// Installed tells if Init has completed.
func (c *Comp) Installed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.installed
}

// Mode returns the translation mechanism in use.
func (c *Comp) Mode() vm.Mode {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.mode
}

// Platform returns the board detected at init.
func (c *Comp) Platform() hardware.Platform {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.platform
}

// Active returns the process whose pages are reachable.
func (c *Comp) Active() vm.PID {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.backend == nil {
		return vm.NoPID
	}

	return c.backend.Active()
}

// Frames returns a copy of the frame table. It is empty before init.
func (c *Comp) Frames() []frame.Frame {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.allocator == nil {
		return nil
	}

	return c.allocator.Table().Snapshot()
}

// NumFreeFrames returns how many frames can still be allocated.
func (c *Comp) NumFreeFrames() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.allocator == nil {
		return vm.NumFrames
	}

	return c.allocator.NumFree()
}
