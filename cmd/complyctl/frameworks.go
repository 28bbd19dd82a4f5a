package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// frameworksCmd represents the frameworks command
var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "Manage compliance framework mappings",
	Long:  `Manage the compliance frameworks used for scoring.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'frameworks' requires a subcommand (list, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(frameworksCmd)
}
