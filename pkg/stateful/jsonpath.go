package stateful

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseJSONBody decodes a request body for extraction. Numbers are kept as
// json.Number so extracted IDs render exactly as they appeared on the wire
// ("42", not "42.000000").
func parseJSONBody(body []byte) (any, error) {
	if len(body) == 0 {
		return nil, &BodyError{Reason: "body is empty"}
	}
	if !utf8.Valid(body) {
		return nil, &BodyError{Reason: "body is not valid UTF-8"}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &BodyError{Reason: "body is not valid JSON: " + err.Error()}
	}
	return doc, nil
}

// extractJSONPath resolves a dotted path expression ($.a.b.0) against a
// decoded JSON document and returns the addressed scalar as a string. Only
// object-key and array-index steps are supported; filters and wildcards are
// not. The result must be a string or a number.
func extractJSONPath(doc any, path string) (string, error) {
	trimmed := strings.TrimPrefix(path, "$")
	trimmed = strings.TrimPrefix(trimmed, ".")

	current := doc
	if trimmed != "" {
		for _, part := range strings.Split(trimmed, ".") {
			switch node := current.(type) {
			case map[string]any:
				next, ok := node[part]
				if !ok {
					return "", &JSONPathError{Kind: JSONPathNotFound, Path: path, Part: part}
				}
				current = next

			case []any:
				idx, err := strconv.Atoi(part)
				if err != nil {
					return "", &JSONPathError{Kind: JSONPathInvalidIndex, Path: path, Part: part}
				}
				if idx < 0 || idx >= len(node) {
					return "", &JSONPathError{Kind: JSONPathIndexOutOfBounds, Path: path, Part: part}
				}
				current = node[idx]

			default:
				return "", &JSONPathError{Kind: JSONPathTypeMismatch, Path: path, Part: part}
			}
		}
	}

	switch v := current.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", &JSONPathError{Kind: JSONPathNotScalar, Path: path}
	}
}
