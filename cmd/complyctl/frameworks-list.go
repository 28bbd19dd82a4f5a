package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doracomply/doracomply/pkg/scoring"
)

// frameworksListCmd represents the frameworks list command
var frameworksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered compliance frameworks",
	Long: `List the compliance frameworks registered for scoring.

Built-in frameworks are always present. Additional frameworks can be
registered through a mapping overrides file.

Example:
  complyctl frameworks list
  complyctl frameworks list --frameworks-file mappings.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		frameworksFile, _ := cmd.Flags().GetString("frameworks-file")

		registry := scoring.DefaultRegistry
		if frameworksFile != "" {
			if err := registry.LoadOverrides(frameworksFile); err != nil {
				fmt.Printf("Failed to load framework overrides: %v\n", err)
				return
			}
		}

		for _, fw := range registry.List() {
			fmt.Printf("%-12s %s (%d requirements)\n", fw.ID, fw.Name, len(fw.Requirements))
		}
	},
}

func init() {
	frameworksCmd.AddCommand(frameworksListCmd)
	frameworksListCmd.Flags().String("frameworks-file", "", "YAML file with framework mapping overrides")
}
