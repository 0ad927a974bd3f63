package connect

import (
	"regexp"
	"sort"
	"strings"

	"clg/internal/extract"
)

// CallMatch links one outbound API call to one backend endpoint with the
// compounded confidence and the signals that contributed.
type CallMatch struct {
	CallID     string   `json:"callId"`
	EndpointID string   `json:"endpointId"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Match signal names recorded on edges for explainability.
const (
	ReasonMethodMatch   = "method-match"
	ReasonURLExact      = "url-exact"
	ReasonURLSubstring  = "url-substring"
	ReasonPathExact     = "path-exact"
	ReasonPathPattern   = "path-pattern"
	ReasonPathStructure = "path-structure"
	ReasonParamCount    = "param-count"
)

// MatchCalls scores every (call, endpoint) pair and returns at most one
// match per call: the highest-confidence pairing above the threshold.
// A differing HTTP method is a hard gate and yields no match regardless of
// URL similarity. Matching is pure; two runs over the same inputs return
// identical results.
func MatchCalls(calls []extract.APICall, endpoints []extract.Endpoint, w Weights) []CallMatch {
	best := make(map[string]CallMatch)

	for _, call := range calls {
		for _, ep := range endpoints {
			m, ok := scoreCall(call, ep, w)
			if !ok {
				continue
			}
			prev, seen := best[call.ID]
			if !seen || m.Confidence > prev.Confidence ||
				(m.Confidence == prev.Confidence && m.EndpointID < prev.EndpointID) {
				best[call.ID] = m
			}
		}
	}

	matches := make([]CallMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CallID < matches[j].CallID })
	return matches
}

func scoreCall(call extract.APICall, ep extract.Endpoint, w Weights) (CallMatch, bool) {
	if !strings.EqualFold(call.Method, ep.Method) {
		return CallMatch{}, false
	}

	callURL := call.URL
	if callURL == "" {
		callURL = call.URLPattern
	}
	epPath := ep.PathPattern
	if epPath == "" {
		epPath = ep.Path
	}

	confidence := w.MethodMatchBase
	reasons := []string{ReasonMethodMatch}

	normCall := normalizeURL(callURL)
	normEp := normalizeURL(epPath)

	if normCall != "" && normCall == normEp {
		confidence += w.URLExact
		reasons = append(reasons, ReasonURLExact)
	}

	if normCall != "" && normEp != "" &&
		(strings.Contains(normCall, normEp) || strings.Contains(normEp, normCall)) &&
		normCall != normEp {
		confidence += w.URLSubstring
		reasons = append(reasons, ReasonURLSubstring)
	}

	callPath := pathOnly(callURL)
	if callPath != "" && callPath == normEp && normCall != normEp {
		confidence += w.PathExact
		reasons = append(reasons, ReasonPathExact)
	}

	if matchesParamPattern(callPath, normEp) {
		confidence += w.PathPattern
		reasons = append(reasons, ReasonPathPattern)
	}

	if structurallyCompatible(callPath, normEp) {
		confidence += w.PathStructure
		reasons = append(reasons, ReasonPathStructure)
	}

	if paramCountCompatible(callPath, ep) {
		confidence += w.ParamCount
		reasons = append(reasons, ReasonParamCount)
	}

	confidence = cap1(confidence)
	if confidence <= w.MinCallConfidence {
		return CallMatch{}, false
	}

	return CallMatch{
		CallID:     call.ID,
		EndpointID: ep.ID,
		Confidence: confidence,
		Reasons:    reasons,
	}, true
}

var (
	schemeRe     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	schemeHostRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/]*`)
)

// normalizeURL strips the scheme, query string, fragment, and any trailing
// slash, lowercasing the result. The host is kept, so a call that spells
// out its base URL compares differently from a bare path and the exact
// and path-exact signals stay distinct.
func normalizeURL(u string) string {
	u = schemeRe.ReplaceAllString(u, "")
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	return strings.ToLower(u)
}

// pathOnly strips scheme and host, returning just the path portion.
func pathOnly(u string) string {
	return normalizeURL(schemeHostRe.ReplaceAllString(u, ""))
}

// matchesParamPattern converts endpoint parameter segments (":id" or
// "{id}") to a [^/]+ regex and tests the call path against it.
func matchesParamPattern(callPath, epPath string) bool {
	if callPath == "" || epPath == "" || !strings.ContainsAny(epPath, ":{") {
		return false
	}

	segments := strings.Split(epPath, "/")
	parts := make([]string, len(segments))
	for i, seg := range segments {
		if isEndpointParam(seg) {
			parts[i] = "[^/]+"
		} else {
			parts[i] = regexp.QuoteMeta(seg)
		}
	}

	re, err := regexp.Compile("^" + strings.Join(parts, "/") + "$")
	if err != nil {
		return false
	}
	return re.MatchString(callPath)
}

// structurallyCompatible compares path shapes segment by segment: equal
// segment count, equal static segments, and dynamic segments on both sides
// treated as compatible.
func structurallyCompatible(callPath, epPath string) bool {
	if callPath == "" || epPath == "" {
		return false
	}

	callSegs := strings.Split(strings.Trim(callPath, "/"), "/")
	epSegs := strings.Split(strings.Trim(epPath, "/"), "/")
	if len(callSegs) != len(epSegs) {
		return false
	}

	for i := range epSegs {
		epDyn := isEndpointParam(epSegs[i])
		callDyn := isDynamicSegment(callSegs[i])
		if epDyn || callDyn {
			continue
		}
		if callSegs[i] != epSegs[i] {
			return false
		}
	}
	return true
}

// paramCountCompatible checks that the number of dynamic segments in the
// call path matches the endpoint's declared path parameters.
func paramCountCompatible(callPath string, ep extract.Endpoint) bool {
	if callPath == "" || len(ep.Parameters) == 0 {
		return false
	}

	dynamic := 0
	for _, seg := range strings.Split(strings.Trim(callPath, "/"), "/") {
		if isDynamicSegment(seg) {
			dynamic++
		}
	}
	return dynamic == len(ep.Parameters)
}

func isEndpointParam(seg string) bool {
	if strings.HasPrefix(seg, ":") && len(seg) > 1 {
		return true
	}
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2
}

var (
	numericRe = regexp.MustCompile(`^[0-9]+$`)
	uuidRe    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// isDynamicSegment reports whether a call path segment looks like a value
// substituted at runtime: a numeric id, a uuid, or a template placeholder
// the extractor preserved.
func isDynamicSegment(seg string) bool {
	if seg == "" {
		return false
	}
	if strings.Contains(seg, "${") || strings.HasPrefix(seg, ":") {
		return true
	}
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return true
	}
	return numericRe.MatchString(seg) || uuidRe.MatchString(seg)
}
