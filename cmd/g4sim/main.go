// Command g4sim runs the boot core against the simulated STM32G4 register
// file: clock plans, clock line lookups, and boot/handoff cycles whose
// retained RAM persists in a file between invocations.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	boardName  string
	boardsFile string

	rootCmd = &cobra.Command{
		Use:           "g4sim",
		Short:         "Simulate STM32G4 clock bring-up and bootloader handoff",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&boardName, "board", "b", "", "board name (default: the build's selected board)")
	rootCmd.PersistentFlags().StringVarP(&boardsFile, "file", "f", "", "YAML file with extra board descriptors")
	rootCmd.AddCommand(planCmd, resolveCmd, bootCmd, requestCmd, wipeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
}
