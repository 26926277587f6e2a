package matching

import "net/http"

// MatchHeader checks if a specific header matches the expected value.
// Header names are case-insensitive (per HTTP spec); values compare exactly.
func MatchHeader(name, expectedValue string, headers http.Header) bool {
	return headers.Get(name) == expectedValue
}

// MatchHeaders checks if all specified headers match.
// Returns true only if ALL headers match.
func MatchHeaders(expected map[string]string, headers http.Header) bool {
	for name, value := range expected {
		if !MatchHeader(name, value, headers) {
			return false
		}
	}
	return true
}
