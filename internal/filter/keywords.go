package filter

import "strings"

// ExcludedMatcher checks strings against the user's excluded-keyword policy.
// Matching is a case-insensitive substring check: an excluded keyword counts
// even when buried inside a longer phrase.
type ExcludedMatcher struct {
	keywords []string // pre-lowered
}

// NewExcludedMatcher builds a matcher for the given excluded keywords.
func NewExcludedMatcher(excluded []string) *ExcludedMatcher {
	kws := make([]string, 0, len(excluded))
	for _, kw := range excluded {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			kws = append(kws, kw)
		}
	}
	return &ExcludedMatcher{keywords: kws}
}

// Match returns the excluded keyword contained in s, or "" if none is.
func (m *ExcludedMatcher) Match(s string) string {
	lower := strings.ToLower(s)
	for _, kw := range m.keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}

// SanitizeQueries deduplicates queries (case-insensitive) and drops any query
// containing an excluded keyword. Order of the surviving queries is preserved.
// The model is prompted not to produce either kind of query; this enforces
// the policy regardless of what it returns.
func SanitizeQueries(queries []string, excluded *ExcludedMatcher) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		if excluded != nil && excluded.Match(q) != "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}
