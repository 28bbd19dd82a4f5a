package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "complyctl",
	Short: "DORA compliance management server and utilities",
	Long: `complyctl runs the DORA compliance management server and provides
utilities for managing the database, users, and scoring frameworks.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
