package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	graphSnapshot string
	graphFormat   string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the lineage graph from an extraction snapshot",
	Long: `Build the cross-layer lineage graph from a snapshot of extracted facts
and print its structure and metadata.

Examples:
  clg graph --snapshot facts.json
  clg graph --snapshot facts.yaml --format=json`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphSnapshot, "snapshot", "", "Extraction snapshot file (JSON or YAML)")
	graphCmd.Flags().StringVar(&graphFormat, "format", "human", "Output format (json, human)")
	_ = graphCmd.MarkFlagRequired("snapshot")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	start := time.Now()

	eng, logger, err := newEngine()
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	graph, _, err := eng.BuildGraph(graphSnapshot)
	if err != nil {
		return err
	}

	out, err := FormatResponse(graph, OutputFormat(graphFormat))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)

	logger.Debug("Graph build completed", map[string]interface{}{
		"nodes":    len(graph.Nodes),
		"edges":    len(graph.Edges),
		"duration": time.Since(start).Milliseconds(),
	})
	return nil
}
