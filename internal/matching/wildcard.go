package matching

import "strings"

// MatchWildcardPath checks a static mock definition's URL pattern against a
// request path. Unlike Pattern, this matcher has no {param} semantics: a
// pattern either equals the path exactly, or contains * / ** wildcards that
// are matched segment-wise. A bare "*" pattern matches every path.
func MatchWildcardPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	return matchWildcardSegments(splitSegments(pattern), splitSegments(path), 0, 0)
}

// matchWildcardSegments matches segments where only * (one segment) and **
// (zero or more segments) are special; everything else, including brace
// placeholders, is literal text.
func matchWildcardSegments(pattern, path []string, pi, si int) bool {
	if pi == len(pattern) {
		return si == len(path)
	}

	switch pattern[pi] {
	case "**":
		if matchWildcardSegments(pattern, path, pi+1, si) {
			return true
		}
		return si < len(path) && matchWildcardSegments(pattern, path, pi, si+1)

	case "*":
		return si < len(path) && matchWildcardSegments(pattern, path, pi+1, si+1)

	default:
		return si < len(path) && pattern[pi] == path[si] && matchWildcardSegments(pattern, path, pi+1, si+1)
	}
}
