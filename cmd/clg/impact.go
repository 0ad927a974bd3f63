package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clg/internal/change"
)

var (
	impactSnapshot    string
	impactRequestFile string
	impactFormat      string
)

var impactCmd = &cobra.Command{
	Use:   "impact [description]",
	Short: "Analyze the impact of a change",
	Long: `Analyze which frontend, backend, and database artifacts a change
touches, predict breaking changes, and estimate effort.

The change can be given as a free-text description or as a structured
request file (JSON, YAML, or TOML).

Examples:
  clg impact --snapshot facts.json "update the /api/users endpoint"
  clg impact --snapshot facts.json --request change.toml
  clg impact --snapshot facts.json --format=json "drop column from table:users"`,
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactSnapshot, "snapshot", "", "Extraction snapshot file (JSON or YAML)")
	impactCmd.Flags().StringVar(&impactRequestFile, "request", "", "Structured change request file (JSON, YAML, or TOML)")
	impactCmd.Flags().StringVar(&impactFormat, "format", "human", "Output format (json, human)")
	_ = impactCmd.MarkFlagRequired("snapshot")

	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	start := time.Now()

	eng, logger, err := newEngine()
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	var req *change.Request
	switch {
	case impactRequestFile != "":
		req, err = eng.Parser().LoadRequest(impactRequestFile)
	case len(args) > 0:
		req, err = eng.Parser().Parse(args[0])
	default:
		return fmt.Errorf("provide a change description or --request file")
	}
	if err != nil {
		return err
	}

	analysis, err := eng.AnalyzeImpact(impactSnapshot, req)
	if err != nil {
		return err
	}

	out, err := FormatResponse(analysis, OutputFormat(impactFormat))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)

	logger.Debug("Impact analysis completed", map[string]interface{}{
		"request":       req.ID,
		"affectedNodes": len(analysis.AffectedNodes),
		"duration":      time.Since(start).Milliseconds(),
	})
	return nil
}
