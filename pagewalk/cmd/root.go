// Package cmd provides the command-line interface for pagewalk.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "pagewalk",
	Short: "Pagewalk simulates x86-64 4-level virtual-to-physical " +
		"address translation.",
	Long: `Pagewalk simulates 4-level, 4KB-page virtual-to-physical ` +
		`address translation over a synthetic sparse physical memory. It ` +
		`loads a memory image holding the page tables, walks them for each ` +
		`queried logical address, and reports the physical address or a ` +
		`fault.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A missing .env file is fine. Variables named PAGEWALK_* provide
	// defaults for the flags of the subcommands.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// stringFlagOrEnv returns the flag value, falling back to an environment
// variable when the flag was not given on the command line.
func stringFlagOrEnv(cmd *cobra.Command, flag, envVar string) string {
	if !cmd.Flags().Changed(flag) {
		if v, ok := os.LookupEnv(envVar); ok {
			return v
		}
	}

	value, _ := cmd.Flags().GetString(flag)

	return value
}
