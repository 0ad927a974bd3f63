package change

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	clgerrors "clg/internal/errors"
)

// Parser normalizes free-text and structured change requests.
type Parser struct {
	classifier Classifier
}

// NewParser creates a parser with the default keyword classifier.
func NewParser() *Parser {
	return &Parser{classifier: NewKeywordClassifier()}
}

// NewParserWithClassifier creates a parser with a custom classification policy.
func NewParserWithClassifier(c Classifier) *Parser {
	return &Parser{classifier: c}
}

// Parse builds a request from a free-text description: classification,
// inferred areas and priority, and prefixed-token target extraction.
func (p *Parser) Parse(description string) (*Request, error) {
	if strings.TrimSpace(description) == "" {
		return nil, clgerrors.New(clgerrors.ChangeRequestInvalid, "change request description is required")
	}

	cls := p.classifier.Classify(description)

	req := &Request{
		ID:            newChangeID(),
		Description:   description,
		Type:          cls.Type,
		AffectedAreas: cls.Areas,
		Priority:      cls.Priority,
	}

	extractTargets(req)
	return req, nil
}

// Normalize validates a partially structured request and fills defaults.
// A missing description is a validation failure, never silently defaulted;
// everything else defaults: generated id, modify-feature type, all three
// layers, medium priority.
func (p *Parser) Normalize(req *Request) error {
	if req == nil || strings.TrimSpace(req.Description) == "" {
		return clgerrors.New(clgerrors.ChangeRequestInvalid, "change request description is required")
	}

	if req.ID == "" {
		req.ID = newChangeID()
	}
	if !req.Type.Valid() {
		req.Type = ModifyFeature
	}
	if len(req.AffectedAreas) == 0 {
		req.AffectedAreas = AllLayers()
	}
	if !req.Priority.Valid() {
		req.Priority = PriorityMedium
	}

	extractTargets(req)
	return nil
}

// LoadRequest reads a structured request from a JSON, YAML, or TOML file
// and normalizes it.
func (p *Parser) LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clgerrors.Wrap(clgerrors.ChangeRequestInvalid, fmt.Sprintf("failed to read request file %s", path), err)
	}

	var req Request
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &req)
	case ".toml":
		err = toml.Unmarshal(data, &req)
	default:
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, clgerrors.Wrap(clgerrors.ChangeRequestInvalid, fmt.Sprintf("failed to decode request file %s", path), err)
	}

	if err := p.Normalize(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// newChangeID generates a process-unique change id. Ids are not required
// to be content-deterministic.
func newChangeID() string {
	return "change-" + uuid.NewString()
}

// targetPrefixes maps description token prefixes to the target list they
// populate.
var targetPrefixes = []struct {
	prefixes []string
	assign   func(*Request, string)
}{
	{[]string{"file:"}, func(r *Request, v string) { r.TargetFiles = appendUnique(r.TargetFiles, v) }},
	{[]string{"endpoint:", "route:", "api:"}, func(r *Request, v string) { r.TargetEndpoints = appendUnique(r.TargetEndpoints, v) }},
	{[]string{"table:", "model:"}, func(r *Request, v string) { r.TargetTables = appendUnique(r.TargetTables, v) }},
	{[]string{"component:", "page:"}, func(r *Request, v string) { r.TargetComponents = appendUnique(r.TargetComponents, v) }},
}

// extractTargets scans the description for prefixed tokens such as
// "file:src/api.ts" or "table:users" and fills the target lists.
func extractTargets(req *Request) {
	for _, token := range strings.Fields(req.Description) {
		token = strings.Trim(token, ",;.()[]\"'")
		lower := strings.ToLower(token)

		for _, rule := range targetPrefixes {
			for _, prefix := range rule.prefixes {
				if strings.HasPrefix(lower, prefix) && len(token) > len(prefix) {
					rule.assign(req, token[len(prefix):])
				}
			}
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
