package main

import (
	"os"

	"github.com/spf13/cobra"

	"clg/internal/export"
)

var (
	exportSnapshot string
	exportFormat   string
	exportOutput   string
	exportCompress bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the lineage graph for visualization",
	Long: `Build the lineage graph and export it for downstream visualization
or reporting tools.

Examples:
  clg export --snapshot facts.json -o graph.json
  clg export --snapshot facts.json --format=yaml -o graph.yaml
  clg export --snapshot facts.json --compress -o graph.json.gz`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSnapshot, "snapshot", "", "Extraction snapshot file (JSON or YAML)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (json, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "gzip the output")
	_ = exportCmd.MarkFlagRequired("snapshot")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	eng, logger, err := newEngine()
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	graph, _, err := eng.BuildGraph(exportSnapshot)
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := export.Write(graph, out, export.Options{
		Format:   export.Format(exportFormat),
		Compress: exportCompress,
	}); err != nil {
		return err
	}

	logger.Debug("Graph exported", map[string]interface{}{
		"nodes":  len(graph.Nodes),
		"edges":  len(graph.Edges),
		"output": exportOutput,
	})
	return nil
}
