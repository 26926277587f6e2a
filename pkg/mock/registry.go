package mock

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/SaaSy-Solutions/statemock/internal/matching"
)

// Registry holds the configured mock definitions and answers lookups. It is
// safe for concurrent use; reads vastly outnumber writes once a collection
// is loaded.
//
// Lookup order is a depth-first walk: root-level definitions in declaration
// order first, then each folder's definitions, then its subfolders. The
// first match wins.
type Registry struct {
	mu      sync.RWMutex
	mocks   []*Mock
	folders []*Folder
	byID    map[string]*Mock
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Mock),
	}
}

// Add registers a root-level definition, assigning an ID if it has none.
func (r *Registry) Add(m *Mock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexLocked(m)
	r.mocks = append(r.mocks, m)
}

// AddFolder registers a folder and indexes all definitions inside it.
func (r *Registry) AddFolder(f *Folder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	r.indexFolderLocked(f)
	r.folders = append(r.folders, f)
}

func (r *Registry) indexLocked(m *Mock) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.byID[m.ID] = m
}

func (r *Registry) indexFolderLocked(f *Folder) {
	for _, m := range f.Mocks {
		if m.ParentID == "" {
			m.ParentID = f.ID
		}
		r.indexLocked(m)
	}
	for _, sub := range f.Folders {
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		r.indexFolderLocked(sub)
	}
}

// Get returns a definition by ID.
func (r *Registry) Get(id string) (*Mock, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

// List returns all definitions in lookup order.
func (r *Registry) List() []*Mock {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Mock
	all = append(all, r.mocks...)
	for _, f := range r.folders {
		all = appendFolder(all, f)
	}
	return all
}

func appendFolder(all []*Mock, f *Folder) []*Mock {
	all = append(all, f.Mocks...)
	for _, sub := range f.Folders {
		all = appendFolder(all, sub)
	}
	return all
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Clear removes all definitions and folders.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mocks = nil
	r.folders = nil
	r.byID = make(map[string]*Mock)
}

// FindMatching locates the definition a request shape corresponds to. A
// definition matches when the method is identical, its URL pattern matches
// the path (exact equality or * / ** wildcards; {param} placeholders are
// literal text here), and every query parameter and header named in the
// criteria is declared by the definition with an equal value.
func (r *Registry) FindMatching(criteria *Criteria) (*Mock, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.mocks {
		if matchesCriteria(m, criteria) {
			return m, true
		}
	}
	for _, f := range r.folders {
		if m, ok := findInFolder(f, criteria); ok {
			return m, true
		}
	}
	return nil, false
}

func findInFolder(f *Folder, criteria *Criteria) (*Mock, bool) {
	for _, m := range f.Mocks {
		if matchesCriteria(m, criteria) {
			return m, true
		}
	}
	for _, sub := range f.Folders {
		if m, ok := findInFolder(sub, criteria); ok {
			return m, true
		}
	}
	return nil, false
}

func matchesCriteria(m *Mock, criteria *Criteria) bool {
	if !m.IsEnabled() || m.Matcher == nil {
		return false
	}
	if m.Matcher.Method != criteria.Method {
		return false
	}
	if !matching.MatchWildcardPath(m.Matcher.Path, criteria.Path) {
		return false
	}
	for name, value := range criteria.QueryParams {
		if m.Matcher.QueryParams[name] != value {
			return false
		}
	}
	for name, value := range criteria.Headers {
		if m.Matcher.Headers[name] != value {
			return false
		}
	}
	return true
}

// FindForRequest locates the first definition whose declared constraints all
// hold for an incoming request: method (empty matches any), URL pattern,
// declared query parameters and headers, and any body JSONPath conditions.
// The walk order is the same as FindMatching's.
func (r *Registry) FindForRequest(req *http.Request, body []byte) (*Mock, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	match := func(m *Mock) bool {
		return matchesRequest(m, req, body)
	}
	for _, m := range r.mocks {
		if match(m) {
			return m, true
		}
	}
	for _, f := range r.folders {
		if m, ok := findInFolderFunc(f, match); ok {
			return m, true
		}
	}
	return nil, false
}

func findInFolderFunc(f *Folder, match func(*Mock) bool) (*Mock, bool) {
	for _, m := range f.Mocks {
		if match(m) {
			return m, true
		}
	}
	for _, sub := range f.Folders {
		if m, ok := findInFolderFunc(sub, match); ok {
			return m, true
		}
	}
	return nil, false
}

func matchesRequest(m *Mock, req *http.Request, body []byte) bool {
	if !m.IsEnabled() || m.Matcher == nil {
		return false
	}
	if m.Matcher.Method != "" && m.Matcher.Method != req.Method {
		return false
	}
	if !matching.MatchWildcardPath(m.Matcher.Path, req.URL.Path) {
		return false
	}
	if !matching.MatchQueryParams(m.Matcher.QueryParams, req.URL.Query()) {
		return false
	}
	if !matching.MatchHeaders(m.Matcher.Headers, req.Header) {
		return false
	}
	if len(m.Matcher.BodyJSONPath) > 0 && !matching.MatchJSONPath(m.Matcher.BodyJSONPath, body) {
		return false
	}
	return true
}
