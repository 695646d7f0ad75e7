package scopes

import (
	"slices"
	"strings"
)

const (
	// Wildcard matches every scope, or every scope under a prefix when used
	// as the last segment (e.g. "prompts.*").
	Wildcard = "*"

	// Delimiter separates scope segments (e.g. "users.view").
	Delimiter = "."
)

// Matches reports whether scope is covered by pattern.
//
// Matching rules:
//   - exact match: "users.view" matches "users.view"
//   - global wildcard: "*" matches any scope
//   - prefix wildcard: "users.*" matches "users.view", "users.delete", ...
func Matches(scope, pattern string) bool {
	if scope == pattern || pattern == Wildcard {
		return true
	}

	if strings.HasSuffix(pattern, Wildcard) {
		prefix := strings.TrimSuffix(pattern, Wildcard)
		prefix = strings.TrimSuffix(prefix, Delimiter)
		return strings.HasPrefix(scope, prefix+Delimiter)
	}

	return false
}

// Has reports whether the scope set grants the given scope,
// honoring wildcard patterns in the set.
func Has(set []string, scope string) bool {
	for _, s := range set {
		if Matches(scope, s) {
			return true
		}
	}
	return false
}

// HasAny reports whether the set grants at least one of the required scopes.
// An empty required list is always satisfied.
func HasAny(set, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(set) == 0 {
		return false
	}
	if slices.Contains(set, Wildcard) {
		return true
	}
	for _, req := range required {
		if Has(set, req) {
			return true
		}
	}
	return false
}

// HasAll reports whether the set grants every required scope.
// An empty required list is always satisfied.
func HasAll(set, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(set) == 0 {
		return false
	}
	if slices.Contains(set, Wildcard) {
		return true
	}
	for _, req := range required {
		if !Has(set, req) {
			return false
		}
	}
	return true
}

// Normalize returns a sorted copy of the set with duplicates and empty
// entries removed. The input slice is not modified.
func Normalize(set []string) []string {
	if len(set) == 0 {
		return nil
	}

	out := make([]string, 0, len(set))
	seen := make(map[string]struct{}, len(set))
	for _, s := range set {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	slices.Sort(out)
	return out
}
