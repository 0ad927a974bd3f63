package connect

import (
	"sort"
	"strings"

	"clg/internal/extract"
)

// QueryMatch attributes one database query to one backend endpoint.
type QueryMatch struct {
	EndpointID string   `json:"endpointId"`
	QueryID    string   `json:"queryId"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Attribution signal names.
const (
	ReasonSameFile     = "same-file"
	ReasonSameFunction = "same-function"
	ReasonProximity    = "line-proximity"
)

// MatchQueries attributes queries to the endpoints that execute them. Any
// pair with a positive compounded confidence yields a match; unlike call
// matching there is no deduplication, since one endpoint legitimately runs
// many queries and one query may serve several endpoints.
func MatchQueries(endpoints []extract.Endpoint, queries []extract.DatabaseQuery, w Weights) []QueryMatch {
	var matches []QueryMatch

	for _, ep := range endpoints {
		for _, q := range queries {
			confidence := 0.0
			var reasons []string

			sameFile := q.File != "" && q.File == ep.File
			if sameFile {
				confidence += w.SameFile
				reasons = append(reasons, ReasonSameFile)
			}

			if q.Function != "" && ep.Handler != "" && q.Function == ep.Handler {
				confidence += w.SameFunction
				reasons = append(reasons, ReasonSameFunction)
			}

			// Forward-only: the query must appear after the endpoint
			// definition, within the proximity window, in the same file.
			if sameFile && q.Line > ep.Line && q.Line-ep.Line <= w.ProximityMaxLines {
				confidence += w.Proximity
				reasons = append(reasons, ReasonProximity)
			}

			if confidence <= 0 {
				continue
			}

			matches = append(matches, QueryMatch{
				EndpointID: ep.ID,
				QueryID:    q.ID,
				Confidence: cap1(confidence),
				Reasons:    reasons,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].EndpointID != matches[j].EndpointID {
			return matches[i].EndpointID < matches[j].EndpointID
		}
		return matches[i].QueryID < matches[j].QueryID
	})
	return matches
}

// TableMatch links a query to the table schema it reads or writes.
// These links are schema-verified, not heuristic: the resolved table name
// matched a known table, so confidence is fixed at 1.0.
type TableMatch struct {
	QueryID   string `json:"queryId"`
	TableName string `json:"tableName"`
}

// MatchTables resolves each query's table name against the known schemas,
// case-insensitively. Queries without a resolvable table produce no match.
func MatchTables(queries []extract.DatabaseQuery, tables []extract.Table) []TableMatch {
	byLower := make(map[string]string, len(tables))
	for _, t := range tables {
		byLower[strings.ToLower(t.Name)] = t.Name
	}

	var matches []TableMatch
	for _, q := range queries {
		resolved := q.ResolvedTable()
		if resolved == "" {
			continue
		}
		if canonical, ok := byLower[strings.ToLower(resolved)]; ok {
			matches = append(matches, TableMatch{QueryID: q.ID, TableName: canonical})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].QueryID != matches[j].QueryID {
			return matches[i].QueryID < matches[j].QueryID
		}
		return matches[i].TableName < matches[j].TableName
	})
	return matches
}
