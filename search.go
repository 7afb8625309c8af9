package facets

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// fuzzyThreshold bounds the normalized edit distance accepted as a typo-level
// match: distance divided by the longer length must stay below it.
const fuzzyThreshold = 0.4

// SearchOptions ranks the named dimension's configured options for a
// typeahead query: prefix matches first, then substring matches, then
// typo-tolerant matches by normalized Levenshtein distance. Configured order
// is preserved within each band and duplicates collapse to their first
// occurrence. An empty query returns every configured option; an unknown
// dimension returns an empty slice.
func SearchOptions[T any](cfg Config[T], name, query string) []any {
	dim, ok := cfg.dimension(name)
	if !ok {
		return []any{}
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[any]struct{}, len(dim.Options))
	var prefix, substring, fuzzy []any
	for _, option := range dim.Options {
		key := canonicalValue(option)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if needle == "" {
			prefix = append(prefix, option)
			continue
		}
		label := strings.ToLower(optionLabel(option))
		switch {
		case strings.HasPrefix(label, needle):
			prefix = append(prefix, option)
		case strings.Contains(label, needle):
			substring = append(substring, option)
		case fuzzyMatch(label, needle):
			fuzzy = append(fuzzy, option)
		}
	}

	out := make([]any, 0, len(prefix)+len(substring)+len(fuzzy))
	out = append(out, prefix...)
	out = append(out, substring...)
	out = append(out, fuzzy...)
	return out
}

func fuzzyMatch(label, needle string) bool {
	longer := len(label)
	if len(needle) > longer {
		longer = len(needle)
	}
	if longer == 0 {
		return false
	}
	dist := levenshtein.ComputeDistance(label, needle)
	return float64(dist)/float64(longer) < fuzzyThreshold
}

// SearchOptions ranks the named dimension's configured options against query
// using the package-level SearchOptions rules.
func (s *Store[T]) SearchOptions(name, query string) []any {
	return SearchOptions(s.cfg, name, query)
}
