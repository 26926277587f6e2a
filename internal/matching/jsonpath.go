package matching

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ohler55/ojg/jp"
)

// MatchJSONPath evaluates JSONPath conditions against a JSON request body.
// Every condition must hold for the body to match. A condition value of the
// form {"exists": bool} is an existence check; any other value is compared
// for equality (with numeric coercion, since JSON numbers decode as float64).
// A body that is not valid JSON never matches.
func MatchJSONPath(conditions map[string]any, body []byte) bool {
	if len(conditions) == 0 {
		return true
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return false
	}

	for path, expected := range conditions {
		if !matchSingleJSONPath(path, expected, data) {
			return false
		}
	}
	return true
}

// matchSingleJSONPath evaluates one JSONPath condition.
func matchSingleJSONPath(path string, expected, data any) bool {
	expr, err := jp.ParseString(path)
	if err != nil {
		// Invalid JSONPath expression - treat as no match
		return false
	}

	results := expr.Get(data)

	if isExistenceCheck(expected) {
		exists := getExistsValue(expected)
		return exists == (len(results) > 0)
	}

	for _, result := range results {
		if valuesEqual(result, expected) {
			return true
		}
	}
	return false
}

// isExistenceCheck determines if the expected value is an existence check
// object: a map with a single "exists" key.
func isExistenceCheck(expected any) bool {
	m, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	_, hasExists := m["exists"]
	return hasExists && len(m) == 1
}

func getExistsValue(expected any) bool {
	m, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	b, ok := m["exists"].(bool)
	return ok && b
}

// valuesEqual compares two values for equality, handling numeric coercion.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	if reflect.DeepEqual(actual, expected) {
		return true
	}

	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}

	return false
}

// toFloat64 attempts to convert a value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateJSONPathExpression validates a JSONPath expression at load time.
func ValidateJSONPathExpression(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}
