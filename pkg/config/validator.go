package config

import (
	"fmt"

	"github.com/SaaSy-Solutions/statemock/pkg/mock"
)

// Warning is a non-fatal configuration issue: the collection loads and
// serves, but part of it is probably not doing what its author intended.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Validate checks the collection for hard errors: definitions that cannot
// match, extractors that cannot run, and state machines that can reach a
// state with no response configured.
func (c *Collection) Validate() error {
	for i, m := range c.Mocks {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("mocks[%d] (%s): %w", i, describeMock(m), err)
		}
	}
	for i, f := range c.Folders {
		if err := validateFolder(fmt.Sprintf("folders[%d]", i), f); err != nil {
			return err
		}
	}
	for i, se := range c.Stateful {
		if err := validateStatefulEndpoint(se); err != nil {
			return fmt.Errorf("stateful[%d] (%s): %w", i, se.PathPattern, err)
		}
	}
	return nil
}

func validateFolder(path string, f *mock.Folder) error {
	for i, m := range f.Mocks {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%s.mocks[%d] (%s): %w", path, i, describeMock(m), err)
		}
	}
	for i, sub := range f.Folders {
		if err := validateFolder(fmt.Sprintf("%s.folders[%d]", path, i), sub); err != nil {
			return err
		}
	}
	return nil
}

func validateStatefulEndpoint(se *StatefulEndpoint) error {
	if se.PathPattern == "" {
		return fmt.Errorf("path_pattern is required")
	}
	if se.ResourceType == "" {
		return fmt.Errorf("resource_type is required")
	}
	if err := se.IDExtract.Validate(); err != nil {
		return err
	}
	if len(se.StateResponses) == 0 {
		return fmt.Errorf("at least one state response is required")
	}

	// Every state the machine can reach from its initial state needs a
	// response, or a request landing there becomes a server error.
	for state := range reachableStates(se) {
		if _, ok := se.StateResponses[state]; !ok {
			return fmt.Errorf("state %q is reachable but has no state response", state)
		}
	}

	for i, t := range se.Transitions {
		if t.Method == "" {
			return fmt.Errorf("transitions[%d]: method is required", i)
		}
		if t.PathPattern == "" {
			return fmt.Errorf("transitions[%d]: path_pattern is required", i)
		}
		if t.FromState == "" || t.ToState == "" {
			return fmt.Errorf("transitions[%d]: from_state and to_state are required", i)
		}
	}
	return nil
}

// reachableStates walks the transition graph from the initial state.
func reachableStates(se *StatefulEndpoint) map[string]bool {
	reachable := map[string]bool{se.EffectiveInitialState(): true}
	for changed := true; changed; {
		changed = false
		for _, t := range se.Transitions {
			if reachable[t.FromState] && !reachable[t.ToState] {
				reachable[t.ToState] = true
				changed = true
			}
		}
	}
	return reachable
}

// Warnings reports lint findings across the collection. The main one is a
// shadowed trigger: a trigger declared after an unconditional trigger with
// the same method, path pattern, and source state can never fire, because
// the earlier one always wins.
func (c *Collection) Warnings() []Warning {
	var warnings []Warning
	for i, se := range c.Stateful {
		path := fmt.Sprintf("stateful[%d] (%s)", i, se.PathPattern)

		type key struct{ method, pattern, from string }
		unconditional := make(map[key]int)
		for j, t := range se.Transitions {
			k := key{t.Method, t.PathPattern, t.FromState}
			if earlier, ok := unconditional[k]; ok {
				warnings = append(warnings, Warning{
					Path: path,
					Message: fmt.Sprintf(
						"transitions[%d] is shadowed by unconditional transitions[%d] (same method, path_pattern, from_state)",
						j, earlier),
				})
				continue
			}
			if t.Condition == "" {
				unconditional[k] = j
			}
		}

		reachable := reachableStates(se)
		for j, t := range se.Transitions {
			if !reachable[t.FromState] {
				warnings = append(warnings, Warning{
					Path: path,
					Message: fmt.Sprintf(
						"transitions[%d]: from_state %q is not reachable from the initial state",
						j, t.FromState),
				})
			}
		}
		for state := range se.StateResponses {
			if !reachable[state] {
				warnings = append(warnings, Warning{
					Path:    path,
					Message: fmt.Sprintf("state response %q is never served: state is not reachable", state),
				})
			}
		}
	}
	return warnings
}

func describeMock(m *mock.Mock) string {
	if m.Name != "" {
		return m.Name
	}
	if m.Matcher != nil {
		return m.Matcher.Method + " " + m.Matcher.Path
	}
	return m.ID
}
