// Package cmd provides the command-line interface that boots the simulated
// MMU.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "egosmmu",
	Short: "egosmmu boots the memory-management unit of a small RISC-V kernel.",
	Long: `egosmmu boots the memory-management unit of a small RISC-V kernel ` +
		`on a simulated QEMU or Arty board, and runs a workload that ` +
		`allocates, maps, and switches between process address spaces. ` +
		`Defaults can be set with EGOS_* variables in a .env file.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
