package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/egosmmu/datarecording"
	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/vm"
)

var _ = Describe("Trace", func() {
	It("should print the events recorded during a workload", func() {
		path := filepath.Join(GinkgoT().TempDir(), "boot")
		recorder := datarecording.New(path)

		m := buildMachine(bootConfig{
			platform: hardware.PlatformQEMU,
			hasMode:  true,
			mode:     vm.ModeSoftTLB,
		}, nil)
		m.mmu.AcceptHook(vm.NewEventTracer(recorder))
		Expect(m.mmu.Init()).To(Succeed())

		w := &workload{mmu: m.mmu, cpu: m.board, numProcs: 2, numPages: 1, rounds: 1}
		Expect(w.run()).To(Succeed())
		Expect(recorder.Close()).To(Succeed())

		out := &bytes.Buffer{}
		err := printTrace(context.Background(), out, path+".sqlite3", 2, 0)

		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(ContainElement(ContainSubstring("MMU.SoftTLB")))
		Expect(out.String()).To(ContainSubstring("FrameFree"))
		Expect(out.String()).To(ContainSubstring("pid=1 -> pid=2"))
		Expect(out.String()).NotTo(ContainSubstring("pid=-1 -> pid=1"))
	})

	It("should fail on a missing recording", func() {
		err := printTrace(context.Background(), &bytes.Buffer{},
			filepath.Join(GinkgoT().TempDir(), "missing.sqlite3"), vm.NoPID, 0)

		Expect(err).To(HaveOccurred())
	})
})
