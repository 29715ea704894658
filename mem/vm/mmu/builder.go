package mmu

import (
	"io"
	"log"
	"os"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/paging"
	"github.com/sarchlab/egosmmu/mem/vm"
)

// A Builder can build MMUs.
type Builder struct {
	machine hardware.Machine
	device  paging.Device
	console io.ReadWriter
	logger  *log.Logger

	hasMode bool
	mode    vm.Mode
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		logger: log.New(os.Stderr, "", 0),
	}
}

// WithMachine sets the board the MMU runs on.
func (b Builder) WithMachine(m hardware.Machine) Builder {
	b.machine = m
	return b
}

// WithPagingDevice sets the device that stores the frames.
func (b Builder) WithPagingDevice(d paging.Device) Builder {
	b.device = d
	return b
}

// WithConsole sets the serial line used to ask for the translation
// mechanism.
func (b Builder) WithConsole(console io.ReadWriter) Builder {
	b.console = console
	return b
}

// WithLogger sets the logger for the kernel messages.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithMode picks the translation mechanism so that Init does not ask.
func (b Builder) WithMode(mode vm.Mode) Builder {
	b.hasMode = true
	b.mode = mode

	return b
}

// Build creates an MMU. It is not usable before Init.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	return &Comp{
		name:          name,
		machine:       b.machine,
		device:        b.device,
		console:       b.console,
		logger:        b.logger,
		hasPresetMode: b.hasMode,
		presetMode:    b.mode,
		platform:      hardware.PlatformQEMU,
	}
}

func (b Builder) mustBeValid() {
	if b.machine == nil {
		panic("MMU requires a machine")
	}

	if b.device == nil {
		panic("MMU requires a paging device")
	}

	if !b.hasMode && b.console == nil {
		panic("MMU requires a console or a preset mode")
	}

	if b.logger == nil {
		panic("MMU requires a logger")
	}
}
