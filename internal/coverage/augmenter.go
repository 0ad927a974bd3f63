// Package coverage enriches an impact analysis with the tests covering the
// affected files. Coverage data comes from an external test-detection
// collaborator; this package only joins it against the analysis.
package coverage

import (
	"fmt"
	"sort"
	"strings"

	"clg/internal/change"
	"clg/internal/extract"
	"clg/internal/impact"
)

// maxNamedTests bounds how many test paths the recommendation names before
// falling back to an ellipsis.
const maxNamedTests = 3

// Augment fills Analysis.AffectedTests with every test covering any
// affected file and appends a high-priority update-tests recommendation.
// With no tests or no overlap the analysis is returned unchanged.
func Augment(analysis *impact.Analysis, tests []extract.TestFile) {
	if analysis == nil || len(tests) == 0 || len(analysis.AffectedFiles) == 0 {
		return
	}

	affected := make(map[string]bool, len(analysis.AffectedFiles))
	for _, f := range analysis.AffectedFiles {
		affected[f] = true
	}

	seen := make(map[string]bool)
	for _, tf := range tests {
		for _, src := range tf.Covers {
			if affected[src] && !seen[tf.Path] {
				seen[tf.Path] = true
				analysis.AffectedTests = append(analysis.AffectedTests, tf.Path)
				break
			}
		}
	}

	if len(analysis.AffectedTests) == 0 {
		return
	}
	sort.Strings(analysis.AffectedTests)

	named := analysis.AffectedTests
	suffix := ""
	if len(named) > maxNamedTests {
		named = named[:maxNamedTests]
		suffix = ", ..."
	}

	analysis.Recommendations = append(analysis.Recommendations, impact.Recommendation{
		Type:     impact.RecommendUpdateTests,
		Priority: change.PriorityHigh,
		Message:  fmt.Sprintf("Update tests covering the affected files: %s%s", strings.Join(named, ", "), suffix),
	})
}
