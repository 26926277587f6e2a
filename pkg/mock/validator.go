package mock

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// validHTTPMethods are the allowed HTTP methods.
var validHTTPMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
}

// headerNameRegex validates HTTP header names (RFC 7230).
var headerNameRegex = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+\-.^_\x60|~]+$`)

// Validate checks if the Mock is valid.
func (m *Mock) Validate() error {
	if m.Matcher == nil {
		return &ValidationError{Field: "matcher", Message: "matcher is required"}
	}

	if m.Matcher.Method != "" && !validHTTPMethods[strings.ToUpper(m.Matcher.Method)] {
		return &ValidationError{
			Field:   "matcher.method",
			Message: fmt.Sprintf("invalid HTTP method: %s", m.Matcher.Method),
		}
	}

	if m.Matcher.Path == "" {
		return &ValidationError{Field: "matcher.path", Message: "path is required"}
	}
	if m.Matcher.Path != "*" && !strings.HasPrefix(m.Matcher.Path, "/") {
		return &ValidationError{Field: "matcher.path", Message: "path must start with / or be *"}
	}

	for name := range m.Matcher.Headers {
		if !headerNameRegex.MatchString(name) {
			return &ValidationError{
				Field:   "matcher.headers",
				Message: fmt.Sprintf("invalid header name: %s", name),
			}
		}
	}

	for path := range m.Matcher.BodyJSONPath {
		if _, err := jp.ParseString(path); err != nil {
			return &ValidationError{
				Field:   "matcher.bodyJsonPath",
				Message: fmt.Sprintf("invalid JSONPath expression %q: %v", path, err),
			}
		}
	}

	if m.Stateful == nil && m.Response == nil {
		return &ValidationError{Field: "response", Message: "response is required"}
	}

	if m.Response != nil {
		if m.Response.StatusCode < 100 || m.Response.StatusCode > 599 {
			return &ValidationError{
				Field:   "response.statusCode",
				Message: fmt.Sprintf("invalid status code: %d", m.Response.StatusCode),
			}
		}
		if m.Response.DelayMs < 0 {
			return &ValidationError{Field: "response.delayMs", Message: "delay must not be negative"}
		}
	}

	if m.Stateful != nil {
		if m.Stateful.ResourceType == "" {
			return &ValidationError{Field: "stateful.resource_type", Message: "resource_type is required"}
		}
		if err := m.Stateful.IDExtract.Validate(); err != nil {
			return &ValidationError{Field: "stateful.resource_id_extract", Message: err.Error()}
		}
	}

	return nil
}
