package matching

import "strings"

// Pattern is a compiled path pattern. Segments of the form {name} match
// exactly one path segment, * matches exactly one segment, and ** matches
// zero or more consecutive segments. A pattern that cannot be parsed falls
// back to exact string comparison against the raw pattern text.
type Pattern struct {
	raw      string
	segments []string
	exact    bool
}

// Compile parses a path pattern. It never fails: an unparsable pattern (for
// example a malformed {param} placeholder) produces a Pattern in exact-match
// mode, so a bad configuration degrades to literal comparison instead of
// rejecting requests.
func Compile(pattern string) *Pattern {
	segments := splitSegments(pattern)
	for _, seg := range segments {
		if !validSegment(seg) {
			return &Pattern{raw: pattern, exact: true}
		}
	}
	return &Pattern{raw: pattern, segments: segments}
}

// String returns the original pattern text.
func (p *Pattern) String() string { return p.raw }

// IsExact reports whether the pattern degraded to exact string matching.
func (p *Pattern) IsExact() bool { return p.exact }

// Matches reports whether the request path matches the pattern.
func (p *Pattern) Matches(path string) bool {
	if p.exact {
		return p.raw == path
	}
	return matchSegments(p.segments, splitSegments(path), 0, 0)
}

// MatchPath is a convenience wrapper that compiles the pattern and matches it
// against the path. Callers on the request hot path should compile once and
// reuse the Pattern instead.
func MatchPath(pattern, path string) bool {
	return Compile(pattern).Matches(path)
}

// splitSegments splits a path into its non-empty segments.
func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// validSegment reports whether a pattern segment is well-formed. Any segment
// containing brace characters must be exactly {name} with a non-empty name.
func validSegment(seg string) bool {
	if !strings.ContainsAny(seg, "{}") {
		return true
	}
	return len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") &&
		!strings.ContainsAny(seg[1:len(seg)-1], "{}")
}

// matchSegments recursively matches pattern segments against path segments.
// The ** wildcard requires backtracking: both "consume one path segment and
// keep **" and "drop **" are tried, succeeding if either alternative leads to
// full consumption of pattern and path.
func matchSegments(pattern, path []string, pi, si int) bool {
	if pi == len(pattern) {
		return si == len(path)
	}

	switch seg := pattern[pi]; {
	case seg == "**":
		if matchSegments(pattern, path, pi+1, si) {
			return true
		}
		return si < len(path) && matchSegments(pattern, path, pi, si+1)

	case seg == "*", isParamSegment(seg):
		return si < len(path) && matchSegments(pattern, path, pi+1, si+1)

	default:
		return si < len(path) && seg == path[si] && matchSegments(pattern, path, pi+1, si+1)
	}
}

func isParamSegment(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}
