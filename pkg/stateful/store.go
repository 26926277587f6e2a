package stateful

import (
	"sort"
	"sync"
)

// Store holds all live state instances, keyed by resource ID. It is safe for
// concurrent use. Instances never leave the store: accessors return clones,
// and all mutation happens under the store's lock.
//
// Transition is the only way a request moves an instance between states. It
// runs the caller's decision function and applies the resulting state change
// inside a single critical section, so two concurrent requests for the same
// resource cannot both observe the old state and both fire; the second one
// decides against the state the first one produced.
type Store struct {
	mu        sync.RWMutex
	instances map[string]*ResourceState
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		instances: make(map[string]*ResourceState),
	}
}

// GetOrCreate returns a snapshot of the instance for resourceID, creating it
// in initialState if it does not exist yet.
func (s *Store) GetOrCreate(resourceID, resourceType, initialState string) *ResourceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(resourceID, resourceType, initialState).Clone()
}

func (s *Store) getOrCreateLocked(resourceID, resourceType, initialState string) *ResourceState {
	if instance, ok := s.instances[resourceID]; ok {
		return instance
	}
	instance := NewResourceState(resourceID, resourceType, initialState)
	s.instances[resourceID] = instance
	return instance
}

// Get returns a snapshot of the instance for resourceID.
func (s *Store) Get(resourceID string) (*ResourceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.instances[resourceID]
	if !ok {
		return nil, false
	}
	return instance.Clone(), true
}

// Transition atomically reads the instance (creating it in initialState if
// absent), asks decide which state to move to, and applies the move. The
// decision function receives a snapshot of the current instance and returns
// the target state and whether to transition at all.
//
// The returned instance reflects the post-transition state. If decide returns
// an error, no state change is applied, but the instance created by the
// lookup (if any) remains.
func (s *Store) Transition(resourceID, resourceType, initialState string,
	decide func(current *ResourceState) (toState string, transition bool, err error),
) (*ResourceState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	instance := s.getOrCreateLocked(resourceID, resourceType, initialState)

	toState, transitioned, err := decide(instance.Clone())
	if err != nil {
		return nil, false, err
	}
	if transitioned {
		instance.TransitionTo(toState)
	}
	return instance.Clone(), transitioned, nil
}

// SetState force-sets the state of an existing instance. Used by the admin
// API to steer a machine into an arbitrary state.
func (s *Store) SetState(resourceID, resourceType, newState string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	instance, ok := s.instances[resourceID]
	if !ok || instance.ResourceType != resourceType {
		return &InstanceNotFoundError{ResourceID: resourceID, ResourceType: resourceType}
	}
	instance.TransitionTo(newState)
	return nil
}

// Info returns an admin snapshot of one instance.
func (s *Store) Info(resourceID string) (StateInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instance, ok := s.instances[resourceID]
	if !ok {
		return StateInfo{}, false
	}
	return infoOf(instance), true
}

// List returns snapshots of all instances, sorted by resource ID for
// deterministic output.
func (s *Store) List() []StateInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]StateInfo, 0, len(s.instances))
	for _, instance := range s.instances {
		infos = append(infos, infoOf(instance))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ResourceID < infos[j].ResourceID
	})
	return infos
}

// Overview returns, per resource type, how many instances sit in each state.
func (s *Store) Overview() map[string]map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overview := make(map[string]map[string]int)
	for _, instance := range s.instances {
		states := overview[instance.ResourceType]
		if states == nil {
			states = make(map[string]int)
			overview[instance.ResourceType] = states
		}
		states[instance.CurrentState]++
	}
	return overview
}

// Len returns the number of live instances.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

// Reset drops all instances. The next request to a stateful endpoint starts
// from its initial state again.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = make(map[string]*ResourceState)
}

func infoOf(instance *ResourceState) StateInfo {
	data := make(map[string]any, len(instance.StateData))
	for k, v := range instance.StateData {
		data[k] = v
	}
	return StateInfo{
		ResourceID:   instance.ResourceID,
		ResourceType: instance.ResourceType,
		CurrentState: instance.CurrentState,
		StateData:    data,
	}
}
