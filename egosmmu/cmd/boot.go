package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/egosmmu/datarecording"
	"github.com/sarchlab/egosmmu/hardware"
	"github.com/sarchlab/egosmmu/mem/paging"
	"github.com/sarchlab/egosmmu/mem/vm"
	"github.com/sarchlab/egosmmu/mem/vm/mmu"
	"github.com/sarchlab/egosmmu/monitoring"
)

type bootConfig struct {
	platform    hardware.Platform
	hasMode     bool
	mode        vm.Mode
	console     string
	record      string
	logEvents   bool
	monitor     bool
	monitorPort int
	openBrowser bool

	numProcs int
	numPages int
	rounds   int
}

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot the MMU and run a workload on it.",
	Long: `Boot builds a simulated board, asks for the translation ` +
		`mechanism unless --translation is given, initializes the MMU, and ` +
		`runs processes round robin while checking their memory.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, err := parseBootFlags(cmd)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		err = boot(cfg)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		atexit.Exit(0)
	},
}

func init() {
	rootCmd.AddCommand(bootCmd)
	addBootFlags(bootCmd)
}

func addBootFlags(c *cobra.Command) {
	c.Flags().String("platform", "qemu",
		"The board to boot on, qemu or arty. Env: EGOS_PLATFORM.")
	c.Flags().String("translation", "",
		"0 or pagetable, 1 or software. Asks on the console if empty. "+
			"Env: EGOS_TRANSLATION.")
	c.Flags().String("console", "stdio",
		"Where to ask for the translation: stdio, tty, or a device path.")
	c.Flags().String("record", "",
		"Record MMU events into <record>.sqlite3. Env: EGOS_RECORD.")
	c.Flags().Bool("log-events", false, "Print every MMU event.")
	c.Flags().Bool("monitor", false, "Serve the MMU state over HTTP.")
	c.Flags().Int("monitor-port", 0,
		"Port of the monitoring server. Env: EGOS_MONITOR_PORT.")
	c.Flags().Bool("open-browser", false,
		"Open the monitoring server in a browser.")
	c.Flags().Int("procs", 4, "Number of processes to run.")
	c.Flags().Int("pages", 4, "Number of pages of each process.")
	c.Flags().Int("rounds", 8, "Number of round-robin rounds.")
}

// flagOrEnv returns the flag's value, or the environment variable's if the
// flag is not set on the command line.
func flagOrEnv(cmd *cobra.Command, name, env string) string {
	value, _ := cmd.Flags().GetString(name)

	if !cmd.Flags().Changed(name) {
		if v, ok := os.LookupEnv(env); ok {
			return v
		}
	}

	return value
}

func parseBootFlags(cmd *cobra.Command) (bootConfig, error) {
	cfg := bootConfig{}

	var err error

	cfg.platform, err = hardware.ParsePlatform(
		flagOrEnv(cmd, "platform", "EGOS_PLATFORM"))
	if err != nil {
		return cfg, err
	}

	if s := flagOrEnv(cmd, "translation", "EGOS_TRANSLATION"); s != "" {
		cfg.mode, err = vm.ParseMode(s)
		if err != nil {
			return cfg, err
		}

		cfg.hasMode = true
	}

	cfg.record = flagOrEnv(cmd, "record", "EGOS_RECORD")
	cfg.console, _ = cmd.Flags().GetString("console")
	cfg.logEvents, _ = cmd.Flags().GetBool("log-events")
	cfg.monitor, _ = cmd.Flags().GetBool("monitor")
	cfg.openBrowser, _ = cmd.Flags().GetBool("open-browser")
	cfg.numProcs, _ = cmd.Flags().GetInt("procs")
	cfg.numPages, _ = cmd.Flags().GetInt("pages")
	cfg.rounds, _ = cmd.Flags().GetInt("rounds")

	cfg.monitorPort, _ = cmd.Flags().GetInt("monitor-port")
	if v, ok := os.LookupEnv("EGOS_MONITOR_PORT"); ok && !cmd.Flags().Changed("monitor-port") {
		cfg.monitorPort, err = strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("EGOS_MONITOR_PORT: %w", err)
		}
	}

	if cfg.numProcs < 1 || cfg.numProcs >= vm.MaxNumProcess {
		return cfg, fmt.Errorf("procs must be in [1, %d)", vm.MaxNumProcess)
	}

	if cfg.numPages < 1 || cfg.numPages > 16 {
		return cfg, fmt.Errorf("pages must be in [1, 16]")
	}

	return cfg, nil
}

type bootedMachine struct {
	board  *hardware.Board
	device *paging.Comp
	mmu    *mmu.Comp
}

func buildMachine(cfg bootConfig, console io.ReadWriter) bootedMachine {
	board := hardware.MakeBuilder().
		WithPlatform(cfg.platform).
		Build("Board")

	numSlots := vm.NumFrames
	if cfg.platform == hardware.PlatformArty {
		numSlots = paging.ArtyNumCacheSlots
	}

	device := paging.MakeBuilder().
		WithMemory(board).
		WithDisk(hardware.NewStorage(paging.DefaultDiskBase + vm.NumFrames*vm.PageSize)).
		WithNumCacheSlots(numSlots).
		Build("PagingDevice")

	builder := mmu.MakeBuilder().
		WithMachine(board).
		WithPagingDevice(device).
		WithLogger(log.New(os.Stderr, "", 0))

	if cfg.hasMode {
		builder = builder.WithMode(cfg.mode)
	} else {
		builder = builder.WithConsole(console)
	}

	return bootedMachine{
		board:  board,
		device: device,
		mmu:    builder.Build("MMU"),
	}
}

func boot(cfg bootConfig) error {
	var console io.ReadWriter

	if !cfg.hasMode {
		rw, closeConsole, err := openConsole(cfg.console)
		if err != nil {
			return err
		}

		console = rw
		defer func() { _ = closeConsole() }()
	}

	m := buildMachine(cfg, console)

	if cfg.record != "" {
		recorder := datarecording.New(cfg.record)
		m.mmu.AcceptHook(vm.NewEventTracer(recorder))
		atexit.Register(func() { _ = recorder.Close() })
	}

	if cfg.logEvents {
		m.mmu.AcceptHook(vm.NewLogHook(log.New(os.Stderr, "", 0)))
	}

	g := &gate{}

	var monitor *monitoring.Monitor
	if cfg.monitor {
		monitor = monitoring.NewMonitor().
			WithPortNumber(cfg.monitorPort).
			WithBrowser(cfg.openBrowser).
			WithPauser(g)
		monitor.RegisterComponent(m.board)
		monitor.RegisterComponent(m.device)
		monitor.RegisterComponent(m.mmu)
		monitor.StartServer()
	}

	g.Lock()
	err := m.mmu.Init()
	g.Unlock()

	if err != nil {
		return err
	}

	w := &workload{
		mmu:      m.mmu,
		cpu:      m.board,
		numProcs: cfg.numProcs,
		numPages: cfg.numPages,
		rounds:   cfg.rounds,
		gate:     g,
	}

	if monitor != nil {
		w.progress = monitor.CreateProgressBar("Switches",
			uint64(cfg.numProcs*cfg.rounds))
		defer monitor.CompleteProgressBar(w.progress)
	}

	err = w.run()
	if err != nil {
		return err
	}

	log.New(os.Stderr, "", 0).Printf(
		"[SUCCESS] %s translation on %s: %d processes, %d switches verified",
		m.mmu.Mode(), m.mmu.Platform(), cfg.numProcs, cfg.numProcs*cfg.rounds)

	return nil
}
