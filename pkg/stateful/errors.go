package stateful

import (
	"fmt"
	"net/http"
)

// ExtractError is returned when a resource ID cannot be pulled out of a
// request. Source identifies which extractor failed.
type ExtractError struct {
	Source string // "path_param", "json_path", "header", "query_param", "composite"
	Name   string // parameter name, header name, or JSONPath expression
	Reason string
}

func (e *ExtractError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cannot extract resource ID from %s %q: %s", e.Source, e.Name, e.Reason)
	}
	return fmt.Sprintf("cannot extract resource ID: %s", e.Reason)
}

// StatusCode returns the HTTP status code for this error.
func (e *ExtractError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ExtractError) Hint() string {
	return "Check that the request carries the value the resource_id_extract configuration expects."
}

// BodyError is returned when a request body that an extractor or condition
// needs to inspect is missing, not valid UTF-8, or not valid JSON.
type BodyError struct {
	Reason string
}

func (e *BodyError) Error() string {
	return "invalid request body: " + e.Reason
}

// StatusCode returns the HTTP status code for this error.
func (e *BodyError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *BodyError) Hint() string {
	return "Send a UTF-8 encoded JSON body when the endpoint extracts values from it."
}

// JSONPathErrorKind classifies why a JSONPath lookup failed.
type JSONPathErrorKind string

// JSONPath failure kinds.
const (
	JSONPathNotFound         JSONPathErrorKind = "not_found"
	JSONPathInvalidIndex     JSONPathErrorKind = "invalid_index"
	JSONPathIndexOutOfBounds JSONPathErrorKind = "index_out_of_bounds"
	JSONPathTypeMismatch     JSONPathErrorKind = "type_mismatch"
	JSONPathNotScalar        JSONPathErrorKind = "not_scalar"
)

// JSONPathError is returned when a JSONPath expression cannot be resolved
// against a JSON document.
type JSONPathError struct {
	Kind JSONPathErrorKind
	Path string
	Part string // the path component where traversal failed, if any
}

func (e *JSONPathError) Error() string {
	switch e.Kind {
	case JSONPathNotFound:
		return fmt.Sprintf("path %q not found", e.Path)
	case JSONPathInvalidIndex:
		return fmt.Sprintf("invalid array index %q in path %q", e.Part, e.Path)
	case JSONPathIndexOutOfBounds:
		return fmt.Sprintf("array index %s out of bounds in path %q", e.Part, e.Path)
	case JSONPathTypeMismatch:
		return fmt.Sprintf("cannot traverse path %q at %q", e.Path, e.Part)
	case JSONPathNotScalar:
		return fmt.Sprintf("path %q does not point to a string or number", e.Path)
	default:
		return fmt.Sprintf("cannot resolve path %q", e.Path)
	}
}

// StatusCode returns the HTTP status code for this error.
func (e *JSONPathError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *JSONPathError) Hint() string {
	return fmt.Sprintf("Check that the request body contains the value addressed by %q.", e.Path)
}

// NoResponseForStateError is returned when a machine lands in a state that
// has no response configured. This is a configuration gap, not a client
// mistake.
type NoResponseForStateError struct {
	ResourceType string
	State        string
}

func (e *NoResponseForStateError) Error() string {
	return fmt.Sprintf("no response configured for state %q of resource type %q", e.State, e.ResourceType)
}

// StatusCode returns the HTTP status code for this error.
func (e *NoResponseForStateError) StatusCode() int {
	return http.StatusInternalServerError
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NoResponseForStateError) Hint() string {
	return fmt.Sprintf("Add a state_responses entry for %q, or remove the transition that leads there.", e.State)
}

// InstanceNotFoundError is returned by admin operations that address a state
// instance that does not exist.
type InstanceNotFoundError struct {
	ResourceID   string
	ResourceType string
}

func (e *InstanceNotFoundError) Error() string {
	if e.ResourceType != "" {
		return fmt.Sprintf("state instance %q of type %q not found", e.ResourceID, e.ResourceType)
	}
	return fmt.Sprintf("state instance %q not found", e.ResourceID)
}

// StatusCode returns the HTTP status code for this error.
func (e *InstanceNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *InstanceNotFoundError) Hint() string {
	return "Instances are created on first request to a stateful endpoint. List existing instances via the admin API."
}
