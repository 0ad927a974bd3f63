package extract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	clgerrors "clg/internal/errors"
	"clg/internal/output"
)

// LoadSnapshot reads an extraction snapshot from a JSON or YAML file.
// A missing or undecodable file is an error; a snapshot with empty fact
// lists is not (downstream code degrades to an empty graph).
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, clgerrors.Wrap(clgerrors.SnapshotNotFound, fmt.Sprintf("snapshot %s does not exist", path), err)
		}
		return nil, clgerrors.Wrap(clgerrors.SnapshotInvalid, fmt.Sprintf("failed to read snapshot %s", path), err)
	}

	var snap Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, clgerrors.Wrap(clgerrors.SnapshotInvalid, "failed to decode YAML snapshot", err).
				WithDetails(map[string]interface{}{"path": path})
		}
	default:
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, clgerrors.Wrap(clgerrors.SnapshotInvalid, "failed to decode JSON snapshot", err).
				WithDetails(map[string]interface{}{"path": path})
		}
	}

	snap.normalize()
	return &snap, nil
}

// normalize sorts fact lists so that two snapshots with the same facts in
// different order produce the same fingerprint and the same graph.
func (s *Snapshot) normalize() {
	sort.SliceStable(s.Components, func(i, j int) bool {
		if s.Components[i].Name != s.Components[j].Name {
			return s.Components[i].Name < s.Components[j].Name
		}
		return s.Components[i].File < s.Components[j].File
	})
	sort.SliceStable(s.APICalls, func(i, j int) bool { return s.APICalls[i].ID < s.APICalls[j].ID })
	sort.SliceStable(s.Endpoints, func(i, j int) bool { return s.Endpoints[i].ID < s.Endpoints[j].ID })
	sort.SliceStable(s.Queries, func(i, j int) bool { return s.Queries[i].ID < s.Queries[j].ID })
	sort.SliceStable(s.Tables, func(i, j int) bool { return s.Tables[i].Name < s.Tables[j].Name })
	sort.SliceStable(s.TestFiles, func(i, j int) bool { return s.TestFiles[i].Path < s.TestFiles[j].Path })
}

// Fingerprint returns a stable content digest of the snapshot, used to key
// stored runs and cached analyses. Identical facts yield identical
// fingerprints regardless of input order.
func (s *Snapshot) Fingerprint() (string, error) {
	canonical, err := output.DeterministicEncode(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := blake2b.Sum256(canonical)
	return hex.EncodeToString(sum[:16]), nil
}

// Defect describes a data-quality problem found in a snapshot. Defects are
// reported, never fatal.
type Defect struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks the snapshot for data-quality defects: duplicate ids,
// facts without files, queries without a resolvable table.
func (s *Snapshot) Validate() []Defect {
	var defects []Defect

	seenCalls := make(map[string]bool)
	for _, c := range s.APICalls {
		if c.ID == "" {
			defects = append(defects, Defect{Kind: "missing-id", Subject: c.File, Message: "api call without id"})
			continue
		}
		if seenCalls[c.ID] {
			defects = append(defects, Defect{Kind: "duplicate-id", Subject: c.ID, Message: "duplicate api call id"})
		}
		seenCalls[c.ID] = true
	}

	seenEndpoints := make(map[string]bool)
	for _, e := range s.Endpoints {
		if e.ID == "" {
			defects = append(defects, Defect{Kind: "missing-id", Subject: e.Path, Message: "endpoint without id"})
			continue
		}
		if seenEndpoints[e.ID] {
			defects = append(defects, Defect{Kind: "duplicate-id", Subject: e.ID, Message: "duplicate endpoint id"})
		}
		seenEndpoints[e.ID] = true
	}

	seenQueries := make(map[string]bool)
	for _, q := range s.Queries {
		if q.ID == "" {
			defects = append(defects, Defect{Kind: "missing-id", Subject: q.File, Message: "query without id"})
			continue
		}
		if seenQueries[q.ID] {
			defects = append(defects, Defect{Kind: "duplicate-id", Subject: q.ID, Message: "duplicate query id"})
		}
		seenQueries[q.ID] = true
		if q.Table == "" && len(q.Tables) == 0 {
			defects = append(defects, Defect{Kind: "unresolved-table", Subject: q.ID, Message: "query has no resolved table"})
		}
	}

	return defects
}

// ResolvedTable returns the primary table a query targets, or "" when the
// extractor could not resolve one.
func (q *DatabaseQuery) ResolvedTable() string {
	if q.Table != "" {
		return q.Table
	}
	if len(q.Tables) > 0 {
		return q.Tables[0]
	}
	return ""
}
