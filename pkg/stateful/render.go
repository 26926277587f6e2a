package stateful

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RenderTemplate substitutes state placeholders into a body template.
// {{state}} and {{resource_id}} come from the instance; {{state_data.KEY}}
// is replaced for every key present in the instance's state data.
// Placeholders that reference nothing are left verbatim, so templates never
// fail to render.
func RenderTemplate(template string, instance *ResourceState) string {
	result := strings.ReplaceAll(template, "{{state}}", instance.CurrentState)
	result = strings.ReplaceAll(result, "{{resource_id}}", instance.ResourceID)

	for key, value := range instance.StateData {
		placeholder := "{{state_data." + key + "}}"
		if strings.Contains(result, placeholder) {
			result = strings.ReplaceAll(result, placeholder, stringifyValue(value))
		}
	}
	return result
}

// stringifyValue renders a state data value for template substitution.
// Strings are inserted as-is (no added quotes), numbers keep their exact
// textual form, and anything else falls back to its JSON encoding.
func stringifyValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
