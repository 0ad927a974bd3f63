// Package connect matches extracted facts across layers: outbound API calls
// to backend endpoints, and backend queries to endpoints and tables. All
// matching is pure and deterministic; confidence comes from a named weight
// table rather than inline constants so scoring policy is tunable.
package connect

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	clgerrors "clg/internal/errors"
)

// Weights assigns a score contribution to every match signal. Signals
// compound additively and the total is capped at 1.0.
type Weights struct {
	// Frontend-backend signals. MethodMatchBase applies once the HTTP
	// method matches; a method mismatch is a hard gate, not a weight.
	MethodMatchBase float64 `toml:"method_match_base"`
	URLExact        float64 `toml:"url_exact"`
	URLSubstring    float64 `toml:"url_substring"`
	PathExact       float64 `toml:"path_exact"`
	PathPattern     float64 `toml:"path_pattern"`
	PathStructure   float64 `toml:"path_structure"`
	ParamCount      float64 `toml:"param_count"`

	// Backend-database signals.
	SameFile     float64 `toml:"same_file"`
	SameFunction float64 `toml:"same_function"`
	Proximity    float64 `toml:"proximity"`

	// ProximityMaxLines bounds the forward-only line window for the
	// proximity signal.
	ProximityMaxLines int `toml:"proximity_max_lines"`

	// MinCallConfidence is the threshold below which a call-endpoint match
	// is discarded.
	MinCallConfidence float64 `toml:"min_call_confidence"`
}

// DefaultWeights returns the scoring policy shipped with clg.
func DefaultWeights() Weights {
	return Weights{
		MethodMatchBase: 0.3,
		URLExact:        0.5,
		URLSubstring:    0.4,
		PathExact:       0.45,
		PathPattern:     0.35,
		PathStructure:   0.3,
		ParamCount:      0.2,

		SameFile:     0.4,
		SameFunction: 0.5,
		Proximity:    0.1,

		ProximityMaxLines: 100,
		MinCallConfidence: 0.3,
	}
}

// LoadWeights reads weight overrides from a TOML file, merged over the
// defaults. Fields absent from the file keep their default values.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return w, clgerrors.Wrap(clgerrors.WeightsInvalid, fmt.Sprintf("failed to read weights file %s", path), err)
	}

	if err := toml.Unmarshal(data, &w); err != nil {
		return w, clgerrors.Wrap(clgerrors.WeightsInvalid, fmt.Sprintf("failed to parse weights file %s", path), err)
	}

	return w, nil
}

// cap1 clamps a compounded confidence to the [0,1] range.
func cap1(c float64) float64 {
	if c > 1.0 {
		return 1.0
	}
	if c < 0 {
		return 0
	}
	return c
}
