// Package mock defines HTTP mock definitions, folders for organizing them,
// and the registry that matches incoming requests against them.
package mock

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/SaaSy-Solutions/statemock/pkg/stateful"
)

// Mock is one HTTP mock definition: matching criteria plus the response to
// serve. A definition may additionally carry a Stateful spec, in which case
// the response is driven by a per-resource state machine instead of the
// static Response.
type Mock struct {
	// ID is a unique identifier for the mock (UUID unless supplied)
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is a human-readable name for the mock
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Description is an optional longer description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Enabled indicates whether this mock is active. Nil means enabled.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// ParentID is the folder ID this mock belongs to ("" = root level)
	ParentID string `json:"parentId,omitempty" yaml:"parentId,omitempty"`

	// Matcher defines criteria for matching incoming requests
	Matcher *HTTPMatcher `json:"matcher" yaml:"matcher"`

	// Response defines the response to return when matched
	Response *HTTPResponse `json:"response,omitempty" yaml:"response,omitempty"`

	// Stateful attaches a per-resource state machine to this definition
	Stateful *StatefulSpec `json:"stateful,omitempty" yaml:"stateful,omitempty"`
}

// IsEnabled reports whether the mock participates in matching.
func (m *Mock) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// HTTPMatcher defines criteria used to match incoming HTTP requests.
// Path supports exact equality and segment-wise * / ** wildcards.
type HTTPMatcher struct {
	Method       string            `json:"method,omitempty" yaml:"method,omitempty"`
	Path         string            `json:"path" yaml:"path"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	QueryParams  map[string]string `json:"queryParams,omitempty" yaml:"queryParams,omitempty"`
	BodyJSONPath map[string]any    `json:"bodyJsonPath,omitempty" yaml:"bodyJsonPath,omitempty"`
}

// HTTPResponse specifies the HTTP response to return.
type HTTPResponse struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body" yaml:"body"`
	DelayMs    int               `json:"delayMs,omitempty" yaml:"delayMs,omitempty"`
}

// StatefulSpec attaches state machine behavior to a single definition. The
// machine's instances live in the server's shared state store, so two
// definitions extracting the same resource ID observe the same state.
type StatefulSpec struct {
	ResourceType string                        `json:"resource_type" yaml:"resource_type"`
	IDExtract    *stateful.IDExtractor         `json:"resource_id_extract" yaml:"resource_id_extract"`
	InitialState string                        `json:"initial_state,omitempty" yaml:"initial_state,omitempty"`
	Transitions  []*stateful.TransitionTrigger `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// Folder groups definitions. Folders can nest; matching walks a folder's own
// definitions before descending into its subfolders.
type Folder struct {
	ID      string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string    `json:"name" yaml:"name"`
	Mocks   []*Mock   `json:"mocks,omitempty" yaml:"mocks,omitempty"`
	Folders []*Folder `json:"folders,omitempty" yaml:"folders,omitempty"`
}

// Criteria describes a request shape to look up in the registry.
type Criteria struct {
	Method      string            `json:"method" yaml:"method"`
	Path        string            `json:"path" yaml:"path"`
	QueryParams map[string]string `json:"queryParams,omitempty" yaml:"queryParams,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// UnmarshalJSON handles the Body field accepting both a string and a JSON
// object/array. When body is a JSON object (e.g., {"id": 1}) or array, it is
// stored as its JSON text, so config files can write body: {"id": 1} instead
// of body: '{"id": 1}'.
func (r *HTTPResponse) UnmarshalJSON(data []byte) error {
	var proxy struct {
		StatusCode int               `json:"statusCode"`
		Headers    map[string]string `json:"headers,omitempty"`
		Body       json.RawMessage   `json:"body"`
		DelayMs    int               `json:"delayMs,omitempty"`
	}
	if err := json.Unmarshal(data, &proxy); err != nil {
		return err
	}

	r.StatusCode = proxy.StatusCode
	r.Headers = proxy.Headers
	r.DelayMs = proxy.DelayMs

	if len(proxy.Body) == 0 {
		r.Body = ""
		return nil
	}

	// Try string first (most common case).
	var s string
	if err := json.Unmarshal(proxy.Body, &s); err == nil {
		r.Body = s
		return nil
	}

	// Object, array, number, or boolean: keep the raw JSON text.
	r.Body = string(proxy.Body)
	return nil
}

// UnmarshalYAML handles the Body field accepting both a string and a YAML
// object/array, mirroring UnmarshalJSON.
func (r *HTTPResponse) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node, got %d", value.Kind)
	}

	type httpResponseAlias HTTPResponse
	var alias httpResponseAlias

	// Pull the body node out of the mapping so the default decoder does not
	// choke on object bodies, then decode the remainder via the alias.
	var bodyNode *yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "body" {
			orig := *value.Content[i+1]
			value.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Value: "", Tag: "!!str"}
			if err := value.Decode(&alias); err != nil {
				return err
			}
			*value.Content[i+1] = orig
			bodyNode = value.Content[i+1]
			break
		}
	}

	if bodyNode == nil {
		if err := value.Decode(&alias); err != nil {
			return err
		}
		*r = HTTPResponse(alias)
		return nil
	}

	*r = HTTPResponse(alias)

	if bodyNode.Kind == yaml.ScalarNode {
		r.Body = bodyNode.Value
		return nil
	}

	var bodyObj any
	if err := bodyNode.Decode(&bodyObj); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}
	bodyJSON, err := json.Marshal(bodyObj)
	if err != nil {
		return fmt.Errorf("failed to marshal body to JSON: %w", err)
	}
	r.Body = string(bodyJSON)
	return nil
}
