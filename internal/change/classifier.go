package change

import (
	"regexp"
	"strings"

	"clg/internal/lineage"
)

// Classification is the outcome of free-text classification.
type Classification struct {
	Type     Type
	Areas    []lineage.Layer
	Priority Priority
}

// Classifier turns a free-text description into a classification.
// The keyword policy is deliberately isolated behind this interface so
// classification changes never ripple into the impact analyzer.
type Classifier interface {
	Classify(description string) Classification
}

// KeywordClassifier classifies by ordered keyword matching. First matching
// rule wins, so rule order is part of the policy.
type KeywordClassifier struct{}

// NewKeywordClassifier returns the default classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// typeRules are evaluated in order; the first rule with a keyword hit
// decides the change type.
var typeRules = []struct {
	keywords []string
	result   Type
}{
	{[]string{"endpoint", "api", "route"}, ModifyAPI},
	{[]string{"schema", "table", "database", "model"}, ModifySchema},
	{[]string{"component", "ui", "page"}, ModifyFeature},
	{[]string{"add", "new"}, AddFeature},
	{[]string{"remove", "delete"}, RemoveFeature},
	{[]string{"bug", "fix"}, BugFix},
}

// Classify applies the keyword policy to the description's word set.
// Keywords match whole words only: "flow" never reads as "low", and
// "rapid" never reads as "api".
func (c *KeywordClassifier) Classify(description string) Classification {
	words := tokenize(description)

	result := Classification{
		Type:     ModifyFeature,
		Priority: PriorityMedium,
	}

	for _, rule := range typeRules {
		if hasAny(words, rule.keywords) {
			result.Type = rule.result
			break
		}
	}

	if words["frontend"] {
		result.Areas = append(result.Areas, lineage.LayerFrontend)
	}
	if words["backend"] {
		result.Areas = append(result.Areas, lineage.LayerBackend)
	}
	if words["database"] {
		result.Areas = append(result.Areas, lineage.LayerDatabase)
	}
	if len(result.Areas) == 0 {
		result.Areas = AllLayers()
	}

	switch {
	case hasAny(words, []string{"critical", "urgent", "bug"}):
		result.Priority = PriorityCritical
	case hasAny(words, []string{"important", "high"}):
		result.Priority = PriorityHigh
	case hasAny(words, []string{"low", "nice-to-have"}):
		result.Priority = PriorityLow
	}

	return result
}

var wordRe = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)*`)

// tokenize lowercases the description and collects its words. Hyphenated
// words are kept whole ("nice-to-have") and also contribute their parts
// ("bug-fix" matches both "bug" and "fix").
func tokenize(description string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(description), -1) {
		words[w] = true
		if strings.Contains(w, "-") {
			for _, part := range strings.Split(w, "-") {
				words[part] = true
			}
		}
	}
	return words
}

func hasAny(words map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if words[kw] {
			return true
		}
	}
	return false
}
