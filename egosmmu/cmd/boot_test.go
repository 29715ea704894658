package cmd

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/vm"
)

type scriptedConsole struct {
	*strings.Reader
	out bytes.Buffer
}

func (c *scriptedConsole) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func newBootCmd() *cobra.Command {
	c := &cobra.Command{Use: "boot"}
	addBootFlags(c)

	return c
}

var _ = Describe("Boot", func() {
	It("should take defaults from the environment", func() {
		GinkgoT().Setenv("EGOS_PLATFORM", "arty")
		GinkgoT().Setenv("EGOS_TRANSLATION", "software")
		GinkgoT().Setenv("EGOS_MONITOR_PORT", "8123")

		cfg, err := parseBootFlags(newBootCmd())

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.platform).To(Equal(hardware.PlatformArty))
		Expect(cfg.hasMode).To(BeTrue())
		Expect(cfg.mode).To(Equal(vm.ModeSoftTLB))
		Expect(cfg.monitorPort).To(Equal(8123))
	})

	It("should prefer flags over the environment", func() {
		GinkgoT().Setenv("EGOS_PLATFORM", "arty")
		c := newBootCmd()
		Expect(c.Flags().Set("platform", "qemu")).To(Succeed())

		cfg, err := parseBootFlags(c)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.platform).To(Equal(hardware.PlatformQEMU))
		Expect(cfg.hasMode).To(BeFalse())
	})

	It("should reject too many processes", func() {
		c := newBootCmd()
		Expect(c.Flags().Set("procs", "16")).To(Succeed())

		_, err := parseBootFlags(c)

		Expect(err).To(HaveOccurred())
	})

	It("should ask on the console when no translation is preset", func() {
		console := &scriptedConsole{Reader: strings.NewReader("1")}
		cfg := bootConfig{platform: hardware.PlatformArty, numProcs: 2, numPages: 2}

		m := buildMachine(cfg, console)

		Expect(m.mmu.Init()).To(Succeed())
		Expect(m.mmu.Mode()).To(Equal(vm.ModeSoftTLB))
		Expect(console.out.String()).To(ContainSubstring("Enter 1: software TLB"))
		Expect(m.device.NumCacheSlots()).To(Equal(28))
	})

	DescribeTable("running the workload",
		func(platform hardware.Platform, mode vm.Mode) {
			cfg := bootConfig{
				platform: platform,
				hasMode:  true,
				mode:     mode,
				numProcs: 5,
				numPages: 8,
				rounds:   3,
			}

			Expect(boot(cfg)).To(Succeed())
		},
		Entry("software TLB on QEMU", hardware.PlatformQEMU, vm.ModeSoftTLB),
		Entry("software TLB on Arty", hardware.PlatformArty, vm.ModeSoftTLB),
		Entry("page tables on QEMU", hardware.PlatformQEMU, vm.ModePageTable),
	)

	It("should refuse page tables on Arty", func() {
		cfg := bootConfig{
			platform: hardware.PlatformArty,
			hasMode:  true,
			mode:     vm.ModePageTable,
			numProcs: 1,
			numPages: 1,
		}

		Expect(boot(cfg)).To(MatchError(vm.ErrConfigurationConflict))
	})
})
