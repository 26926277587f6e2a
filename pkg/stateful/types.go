package stateful

import (
	"net/http"
	"net/url"
)

// DefaultInitialState is used when a Config does not name its initial state.
const DefaultInitialState = "initial"

// Request is the transport-independent view of an incoming request that the
// state machine operates on. The body is fully read before processing so
// extractors and conditions can inspect it more than once.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// RequestFromHTTP builds a Request from an *http.Request whose body has
// already been read into body.
func RequestFromHTTP(r *http.Request, body []byte) *Request {
	return &Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header,
		Body:   body,
	}
}

// ResourceState is one live state machine instance: the current state of a
// single resource (one order, one job) identified by its ID. Instances are
// owned by the Store; callers outside the store only ever see clones.
type ResourceState struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	CurrentState string         `json:"current_state"`
	StateData    map[string]any `json:"state_data,omitempty"`
}

// NewResourceState creates an instance in the given initial state with empty
// state data.
func NewResourceState(resourceID, resourceType, initialState string) *ResourceState {
	return &ResourceState{
		ResourceID:   resourceID,
		ResourceType: resourceType,
		CurrentState: initialState,
		StateData:    make(map[string]any),
	}
}

// TransitionTo moves the instance to a new state. State data is preserved
// across transitions.
func (s *ResourceState) TransitionTo(newState string) {
	s.CurrentState = newState
}

// Clone returns a deep-enough copy: the state data map is copied, values are
// shared. Values are treated as immutable once stored.
func (s *ResourceState) Clone() *ResourceState {
	data := make(map[string]any, len(s.StateData))
	for k, v := range s.StateData {
		data[k] = v
	}
	return &ResourceState{
		ResourceID:   s.ResourceID,
		ResourceType: s.ResourceType,
		CurrentState: s.CurrentState,
		StateData:    data,
	}
}

// StateResponse describes the response served while a resource sits in a
// particular state.
type StateResponse struct {
	StatusCode   int               `json:"status_code" yaml:"status_code"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	BodyTemplate string            `json:"body_template" yaml:"body_template"`
	ContentType  string            `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// TransitionTrigger moves a resource from one state to another when a request
// matches its method, path pattern, source state, and optional condition.
type TransitionTrigger struct {
	Method      string `json:"method" yaml:"method"`
	PathPattern string `json:"path_pattern" yaml:"path_pattern"`
	FromState   string `json:"from_state" yaml:"from_state"`
	ToState     string `json:"to_state" yaml:"to_state"`
	Condition   string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Config is the declarative description of one stateful endpoint: how to
// identify the resource, which responses each state serves, and which
// requests move the machine between states.
type Config struct {
	ResourceType   string                    `json:"resource_type" yaml:"resource_type"`
	IDExtract      *IDExtractor              `json:"resource_id_extract" yaml:"resource_id_extract"`
	InitialState   string                    `json:"initial_state,omitempty" yaml:"initial_state,omitempty"`
	StateResponses map[string]*StateResponse `json:"state_responses" yaml:"state_responses"`
	Transitions    []*TransitionTrigger      `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// EffectiveInitialState returns the configured initial state, or
// DefaultInitialState when unset.
func (c *Config) EffectiveInitialState() string {
	if c.InitialState == "" {
		return DefaultInitialState
	}
	return c.InitialState
}

// Response is the fully rendered result of processing a request through a
// state machine. State and ResourceID report what the machine decided, for
// logging and diagnostics.
type Response struct {
	StatusCode  int
	Headers     map[string]string
	Body        string
	ContentType string
	State       string
	// PreviousState is the state before this request was processed. Equal
	// to State when no transition fired.
	PreviousState string
	ResourceID    string
}

// StateInfo is a read-only snapshot of one instance, as exposed through the
// admin API.
type StateInfo struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	CurrentState string         `json:"current_state"`
	StateData    map[string]any `json:"state_data,omitempty"`
}
