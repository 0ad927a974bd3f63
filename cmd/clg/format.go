package main

import (
	"fmt"
	"strings"

	"clg/internal/impact"
	"clg/internal/lineage"
	"clg/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format.
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := output.DeterministicEncodeIndented(resp, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *lineage.Graph:
		return formatGraphHuman(v), nil
	case *impact.Analysis:
		return formatAnalysisHuman(v), nil
	default:
		// Unknown types fall back to JSON.
		return formatJSON(resp)
	}
}

func formatGraphHuman(g *lineage.Graph) string {
	var b strings.Builder

	b.WriteString("Lineage Graph\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Nodes: %d (frontend %d, backend %d, database %d)\n",
		g.Metadata.NodeCount,
		g.Metadata.NodesByLayer[lineage.LayerFrontend],
		g.Metadata.NodesByLayer[lineage.LayerBackend],
		g.Metadata.NodesByLayer[lineage.LayerDatabase])
	fmt.Fprintf(&b, "Edges: %d\n", g.Metadata.EdgeCount)
	if g.Metadata.EdgeCount > 0 {
		fmt.Fprintf(&b, "Confidence: avg %.2f, min %.2f, max %.2f\n",
			g.Metadata.AvgConfidence, g.Metadata.MinConfidence, g.Metadata.MaxConfidence)
		fmt.Fprintf(&b, "Histogram [0-0.2 ... 0.8-1.0]: %v\n", g.Metadata.ConfidenceHistogram)
	}
	fmt.Fprintf(&b, "Disconnected components: %d\n", g.Metadata.DisconnectedComponents)
	fmt.Fprintf(&b, "Longest path: %d nodes\n", g.Metadata.LongestPath)

	return b.String()
}

func formatAnalysisHuman(a *impact.Analysis) string {
	var b strings.Builder

	b.WriteString("Impact Analysis\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Change: %s (%s)\n\n", a.RequestID, a.ChangeType)

	fmt.Fprintf(&b, "Affected: %d nodes across %d files\n",
		a.Summary.TotalAffectedNodes, a.Summary.TotalAffectedFiles)
	fmt.Fprintf(&b, "Complexity: %s, estimated effort %dh\n\n",
		a.Summary.EstimatedComplexity, a.Summary.EstimatedHours)

	if len(a.BreakingChanges) > 0 {
		b.WriteString("Breaking changes:\n")
		for _, bc := range a.BreakingChanges {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", bc.Severity, bc.Type, bc.Description)
			if bc.Migration != "" {
				fmt.Fprintf(&b, "        migration: %s\n", bc.Migration)
			}
		}
		b.WriteString("\n")
	}

	if len(a.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", r.Priority, r.Type, r.Message)
		}
		b.WriteString("\n")
	}

	if len(a.AffectedTests) > 0 {
		fmt.Fprintf(&b, "Affected tests (%d):\n", len(a.AffectedTests))
		for _, t := range a.AffectedTests {
			fmt.Fprintf(&b, "  %s\n", t)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
