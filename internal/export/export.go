// Package export writes lineage graphs for downstream visualization and
// reporting consumers.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	clgerrors "clg/internal/errors"
	"clg/internal/lineage"
	"clg/internal/output"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Options control an export.
type Options struct {
	Format   Format
	Compress bool // gzip the output stream
}

// Write encodes the graph to w. JSON output is deterministic (sorted keys,
// rounded floats) so repeated exports of the same graph are byte-identical.
func Write(g *lineage.Graph, w io.Writer, opts Options) error {
	if g == nil {
		return clgerrors.New(clgerrors.ExportFailed, "no graph to export")
	}

	out := w
	var gz *gzip.Writer
	if opts.Compress {
		gz = gzip.NewWriter(w)
		out = gz
	}

	var err error
	switch opts.Format {
	case FormatYAML:
		err = writeYAML(g, out)
	case FormatJSON, "":
		err = writeJSON(g, out)
	default:
		err = clgerrors.Newf(clgerrors.ExportFailed, "unsupported export format %q", opts.Format)
	}
	if err != nil {
		return err
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return clgerrors.Wrap(clgerrors.ExportFailed, "failed to finish compressed export", err)
		}
	}
	return nil
}

func writeJSON(g *lineage.Graph, w io.Writer) error {
	data, err := output.DeterministicEncodeIndented(g, "  ")
	if err != nil {
		return clgerrors.Wrap(clgerrors.ExportFailed, "failed to encode graph", err)
	}
	if _, err := w.Write(data); err != nil {
		return clgerrors.Wrap(clgerrors.ExportFailed, "failed to write graph", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// writeYAML goes through the deterministic JSON form first so field names
// match the JSON export exactly.
func writeYAML(g *lineage.Graph, w io.Writer) error {
	data, err := output.DeterministicEncode(g)
	if err != nil {
		return clgerrors.Wrap(clgerrors.ExportFailed, "failed to encode graph", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return clgerrors.Wrap(clgerrors.ExportFailed, "failed to normalize graph", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return clgerrors.Wrap(clgerrors.ExportFailed, "failed to encode graph", err)
	}
	return enc.Close()
}
