package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/vm"
	"github.com/sarchlab/egosmmu/monitoring"
)

// userBase is the first page of every process, where the kernel loads user
// applications.
const userBase = vm.PageNo(0x80800)

// MMU is the interface the kernel uses after boot.
type MMU interface {
	Alloc() (vm.FrameID, uint32, error)
	Free(pid vm.PID)
	Map(pid vm.PID, page vm.PageNo, frame vm.FrameID) error
	Switch(pid vm.PID) error
}

// CPU is how the workload touches memory as a running process.
type CPU interface {
	WritePhys(addr uint32, data []byte) error
	Load(va uint32, n int) ([]byte, error)
	StoreBytes(va uint32, data []byte) error
}

var _ CPU = (*hardware.Board)(nil)

// gate lets the monitor hold the machine still between workload steps.
type gate struct {
	sync.Mutex
}

// Pause waits for the current step to finish and blocks the next one.
func (g *gate) Pause() {
	g.Lock()
}

// Continue lets the workload run again.
func (g *gate) Continue() {
	g.Unlock()
}

// workload loads a few processes, runs them round robin, and checks after
// every switch that each process sees exactly the data it left behind.
type workload struct {
	mmu MMU
	cpu CPU

	numProcs int
	numPages int
	rounds   int

	progress *monitoring.ProgressBar
	gate     sync.Locker

	expected map[vm.PID][][]byte
}

func (w *workload) run() error {
	w.expected = make(map[vm.PID][][]byte)

	for i := 1; i <= w.numProcs; i++ {
		pid := vm.PID(i)

		err := w.locked(func() error { return w.load(pid) })
		if err != nil {
			return err
		}
	}

	for r := 0; r < w.rounds; r++ {
		for i := 1; i <= w.numProcs; i++ {
			pid, round := vm.PID(i), r

			err := w.locked(func() error { return w.step(pid, round) })
			if err != nil {
				return err
			}
		}
	}

	for i := 1; i <= w.numProcs; i++ {
		pid := vm.PID(i)

		_ = w.locked(func() error {
			w.mmu.Free(pid)
			return nil
		})
	}

	return nil
}

// locked runs f while holding the gate, if there is one.
func (w *workload) locked(f func() error) error {
	if w.gate != nil {
		w.gate.Lock()
		defer w.gate.Unlock()
	}

	return f()
}

func (w *workload) load(pid vm.PID) error {
	pages := make([][]byte, w.numPages)

	for p := 0; p < w.numPages; p++ {
		id, addr, err := w.mmu.Alloc()
		if err != nil {
			return err
		}

		pages[p] = bytes.Repeat([]byte{byte(int(pid)<<4 | p&0xF)}, vm.PageSize)

		err = w.cpu.WritePhys(addr, pages[p])
		if err != nil {
			return err
		}

		err = w.mmu.Map(pid, userBase+vm.PageNo(p), id)
		if err != nil {
			return err
		}
	}

	w.expected[pid] = pages

	return nil
}

func (w *workload) step(pid vm.PID, round int) error {
	if w.progress != nil {
		w.progress.IncrementInProgress(1)
	}

	err := w.mmu.Switch(pid)
	if err != nil {
		return err
	}

	for p, want := range w.expected[pid] {
		va := (userBase + vm.PageNo(p)).Addr()

		got, err := w.cpu.Load(va, vm.PageSize)
		if err != nil {
			return err
		}

		if !bytes.Equal(got, want) {
			return fmt.Errorf("pid %d sees wrong data at 0x%08x in round %d",
				pid, va, round)
		}

		binary.LittleEndian.PutUint32(want, uint32(round+1))

		err = w.cpu.StoreBytes(va, want[:4])
		if err != nil {
			return err
		}
	}

	if w.progress != nil {
		w.progress.MoveInProgressToFinished(1)
	}

	return nil
}
