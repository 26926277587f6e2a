package stateful

import "strings"

// EvaluateCondition decides whether a trigger's condition holds for the
// request. A condition starting with "$." is resolved as a JSONPath against
// the request body and checked for truthiness: empty strings, "false", and
// "0" are falsy, everything else is truthy. A condition the expression
// language cannot interpret is treated as satisfied, so an unrecognized
// condition never silently disables a transition.
//
// Evaluation errors (unreadable body, unresolvable path) are returned to the
// caller rather than swallowed; a trigger whose condition cannot be checked
// must not fire.
func EvaluateCondition(condition string, req *Request) (bool, error) {
	if !strings.HasPrefix(condition, "$.") {
		return true, nil
	}

	doc, err := parseJSONBody(req.Body)
	if err != nil {
		return false, err
	}
	value, err := extractJSONPath(doc, condition)
	if err != nil {
		return false, err
	}
	return value != "" && value != "false" && value != "0", nil
}
