package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doracomply/doracomply/pkg/extraction"
	"github.com/doracomply/doracomply/pkg/scoring"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <payload-file>",
	Short: "Score an extraction payload without a server",
	Long: `Score an extraction payload without a server.

The payload file is the JSON produced by the document extractor. The command
runs the full scoring pipeline over it and prints the results as JSON:
pillar scores, article coverage, gaps and per-framework scores.

Useful for checking mapping changes against a known report before they reach
the dashboard.

Example:
  complyctl score report-extraction.json
  complyctl score report-extraction.json --frameworks-file mappings.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		frameworksFile, _ := cmd.Flags().GetString("frameworks-file")

		if err := scorePayload(args[0], frameworksFile); err != nil {
			fmt.Fprintf(os.Stderr, "Scoring failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().String("frameworks-file", "", "YAML file with framework mapping overrides")
}

// scoreResult mirrors the shape stored for an analyzed document so offline
// runs are directly comparable with API responses.
type scoreResult struct {
	Compliance scoring.Compliance       `json:"compliance"`
	Coverage   scoring.Coverage         `json:"coverage"`
	Gaps       []scoring.Gap            `json:"gaps"`
	Frameworks []scoring.FrameworkScore `json:"frameworks"`
}

func scorePayload(path, frameworksFile string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	payload, err := extraction.ParsePayload(data)
	if err != nil {
		return err
	}

	registry := scoring.DefaultRegistry
	if frameworksFile != "" {
		if err := registry.LoadOverrides(frameworksFile); err != nil {
			return fmt.Errorf("failed to load framework overrides: %w", err)
		}
	}

	mappings := scoring.MapControls(payload.Controls)
	coverage := scoring.CalculateCoverage(mappings)
	gaps := scoring.CoverageGaps(coverage)
	if gaps == nil {
		gaps = []scoring.Gap{}
	}

	result := scoreResult{
		Compliance: scoring.CalculateDORACompliance(payload.Controls),
		Coverage:   coverage,
		Gaps:       gaps,
		Frameworks: registry.ScoreAll(payload.Controls),
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
