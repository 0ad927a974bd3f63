package impact

import (
	"fmt"

	"clg/internal/change"
)

// refactorThreshold is the affected-node count above which a change is
// large enough to warrant splitting.
const refactorThreshold = 30

// recommend derives the deterministic, additive recommendation list.
func recommend(req *change.Request, result *Analysis) []Recommendation {
	recs := []Recommendation{}

	if len(result.BreakingChanges) > 0 {
		recs = append(recs,
			Recommendation{
				Type:     RecommendReview,
				Priority: change.PriorityHigh,
				Message:  fmt.Sprintf("%d breaking change(s) predicted; request review from owners of the affected files", len(result.BreakingChanges)),
			},
			Recommendation{
				Type:     RecommendMigration,
				Priority: change.PriorityHigh,
				Message:  "Plan a migration path for consumers before merging",
			},
		)
	}

	if len(result.AffectedNodes) > refactorThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendRefactor,
			Priority: change.PriorityMedium,
			Message:  fmt.Sprintf("Change touches %d nodes; consider splitting into smaller increments", len(result.AffectedNodes)),
		})
	}

	if req.Type == change.ModifySchema {
		recs = append(recs, Recommendation{
			Type:     RecommendBackupDB,
			Priority: change.PriorityHigh,
			Message:  "Back up the database before applying schema changes",
		})
	}

	return recs
}
