package stateful

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SaaSy-Solutions/statemock/internal/matching"
	"github.com/SaaSy-Solutions/statemock/pkg/logging"
)

// route is a registered stateful endpoint with its patterns compiled once at
// registration, keeping pattern parsing off the request path.
type route struct {
	pattern  *matching.Pattern
	config   *Config
	triggers []compiledTrigger
}

type compiledTrigger struct {
	trigger *TransitionTrigger
	pattern *matching.Pattern
}

// Engine routes requests to stateful endpoint configurations and drives
// their state machines against a shared Store.
//
// All endpoints registered on one Engine share the store, so a resource ID
// extracted by one endpoint addresses the same instance as the identical ID
// extracted by another. Routes are consulted in registration order and the
// first whose pattern matches the request path handles it.
type Engine struct {
	mu     sync.RWMutex
	routes []*route

	store  *Store
	logger *slog.Logger
}

// NewEngine creates an Engine over the given store. A nil store gets a fresh
// private one; a nil logger disables logging.
func NewEngine(store *Store, logger *slog.Logger) *Engine {
	if store == nil {
		store = NewStore()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// Store returns the engine's instance store.
func (e *Engine) Store() *Store {
	return e.store
}

// AddConfig registers a stateful configuration under a path pattern,
// compiling the route and trigger patterns. Registering the same pattern
// again replaces the earlier configuration.
func (e *Engine) AddConfig(pathPattern string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config for pattern %q is nil", pathPattern)
	}
	if cfg.ResourceType == "" {
		return fmt.Errorf("config for pattern %q: resource_type is required", pathPattern)
	}
	if err := cfg.IDExtract.Validate(); err != nil {
		return fmt.Errorf("config for pattern %q: %w", pathPattern, err)
	}

	r := &route{
		pattern:  matching.Compile(pathPattern),
		config:   cfg,
		triggers: compileTriggers(cfg.Transitions),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.routes {
		if existing.pattern.String() == pathPattern {
			e.routes[i] = r
			return nil
		}
	}
	e.routes = append(e.routes, r)
	return nil
}

func compileTriggers(transitions []*TransitionTrigger) []compiledTrigger {
	compiled := make([]compiledTrigger, 0, len(transitions))
	for _, t := range transitions {
		compiled = append(compiled, compiledTrigger{
			trigger: t,
			pattern: matching.Compile(t.PathPattern),
		})
	}
	return compiled
}

// CanHandle reports whether some registered endpoint matches the path.
func (e *Engine) CanHandle(path string) bool {
	return e.findRoute(path) != nil
}

func (e *Engine) findRoute(path string) *route {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, r := range e.routes {
		if r.pattern.Matches(path) {
			return r
		}
	}
	return nil
}

// ProcessRequest runs a request through the state machine of the first
// matching endpoint. It returns (nil, nil) when no endpoint matches, so the
// caller can fall through to other handlers.
//
// For a matching endpoint the engine extracts the resource ID, applies at
// most one transition (first matching trigger wins), and renders the
// response configured for the state the instance ends up in. The read of the
// current state and the write of the new one happen in one critical section
// of the store, so concurrent requests against the same resource serialize.
func (e *Engine) ProcessRequest(req *Request) (*Response, error) {
	r := e.findRoute(req.Path)
	if r == nil {
		return nil, nil
	}
	cfg := r.config

	resourceID, err := cfg.IDExtract.Extract(req)
	if err != nil {
		return nil, err
	}

	var fromState string
	instance, transitioned, err := e.store.Transition(
		resourceID, cfg.ResourceType, cfg.EffectiveInitialState(),
		func(current *ResourceState) (string, bool, error) {
			fromState = current.CurrentState
			return decideTransition(r.triggers, req, current)
		},
	)
	if err != nil {
		return nil, err
	}
	if transitioned {
		e.logger.Debug("state transition",
			"resource_type", cfg.ResourceType,
			"resource_id", resourceID,
			"from", fromState,
			"to", instance.CurrentState)
	}

	stateResp := cfg.StateResponses[instance.CurrentState]
	if stateResp == nil {
		return nil, &NoResponseForStateError{
			ResourceType: cfg.ResourceType,
			State:        instance.CurrentState,
		}
	}

	resp := buildResponse(stateResp, instance)
	resp.PreviousState = fromState
	return resp, nil
}

// decideTransition finds the first trigger matching the request and the
// instance's current state. Returns the target state, or transition=false
// when nothing fires. A condition that cannot be evaluated aborts processing
// rather than being skipped.
func decideTransition(triggers []compiledTrigger, req *Request, current *ResourceState) (string, bool, error) {
	for _, ct := range triggers {
		t := ct.trigger
		if !strings.EqualFold(t.Method, req.Method) {
			continue
		}
		if !ct.pattern.Matches(req.Path) {
			continue
		}
		if current.CurrentState != t.FromState {
			continue
		}
		if t.Condition != "" {
			ok, err := EvaluateCondition(t.Condition, req)
			if err != nil {
				return "", false, err
			}
			if !ok {
				continue
			}
		}
		return t.ToState, true, nil
	}
	return "", false, nil
}

func buildResponse(stateResp *StateResponse, instance *ResourceState) *Response {
	status := stateResp.StatusCode
	if status == 0 {
		status = 200
	}
	contentType := stateResp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return &Response{
		StatusCode:  status,
		Headers:     stateResp.Headers,
		Body:        RenderTemplate(stateResp.BodyTemplate, instance),
		ContentType: contentType,
		State:       instance.CurrentState,
		ResourceID:  instance.ResourceID,
	}
}

// ProcessScenario drives a state machine attached to an individual mock
// definition rather than a registered endpoint. The caller supplies the
// machine's pieces inline; the instance lives in the same shared store, so
// scenario state and endpoint state interoperate when they use the same
// resource IDs.
func (e *Engine) ProcessScenario(req *Request, resourceType string, extract *IDExtractor,
	initialState string, transitions []*TransitionTrigger,
) (*StateInfo, error) {
	resourceID, err := extract.Extract(req)
	if err != nil {
		return nil, err
	}
	if initialState == "" {
		initialState = DefaultInitialState
	}

	instance, _, err := e.store.Transition(resourceID, resourceType, initialState,
		func(current *ResourceState) (string, bool, error) {
			return decideTransition(compileTriggers(transitions), req, current)
		},
	)
	if err != nil {
		return nil, err
	}

	info := infoOf(instance)
	return &info, nil
}

// ResourceState returns the admin snapshot for a resource of the given type.
func (e *Engine) ResourceState(resourceID, resourceType string) (StateInfo, bool) {
	info, ok := e.store.Info(resourceID)
	if !ok || info.ResourceType != resourceType {
		return StateInfo{}, false
	}
	return info, true
}

// SetResourceState force-sets the state of an existing instance.
func (e *Engine) SetResourceState(resourceID, resourceType, newState string) error {
	return e.store.SetState(resourceID, resourceType, newState)
}
