// Package requestlog keeps a bounded in-memory history of served requests
// for inspection via the admin API.
package requestlog

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxBodyCapture caps how much of a request body is retained per entry.
const maxBodyCapture = 10 * 1024

// Entry captures the details of one served request.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Body is the request body content (truncated if over 10KB).
	Body string `json:"body,omitempty"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize"`

	// RemoteAddr is the client address.
	RemoteAddr string `json:"remoteAddr"`

	// MatchedID identifies what served the request: a definition ID, or
	// "stateful:<resource-id>" for state machine endpoints. Empty when
	// nothing matched.
	MatchedID string `json:"matchedID,omitempty"`

	// ResourceID is the state instance the request touched, if any.
	ResourceID string `json:"resourceID,omitempty"`

	// StateFrom and StateTo record a state transition caused by this
	// request. Equal values mean the request observed but did not move
	// the state.
	StateFrom string `json:"stateFrom,omitempty"`
	StateTo   string `json:"stateTo,omitempty"`

	// ResponseStatus is the status code returned.
	ResponseStatus int `json:"responseStatus"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int `json:"durationMs"`
}

// Filter defines criteria for querying the log.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// MatchedID filters by what served the request.
	MatchedID string

	// ResourceID filters by state instance.
	ResourceID string

	// StatusCode filters by response status code.
	StatusCode int

	// Limit is the maximum number of entries to return (0 = no limit).
	Limit int

	// Offset is the number of matching entries to skip.
	Offset int
}

// Log is a fixed-capacity in-memory request history. Oldest entries are
// evicted first. Safe for concurrent use.
type Log struct {
	mu         sync.RWMutex
	entries    []*Entry
	maxEntries int
	nextID     int64
}

// DefaultCapacity is the entry capacity used when none is configured.
const DefaultCapacity = 1000

// NewLog creates a request log holding at most maxEntries entries.
func NewLog(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultCapacity
	}
	return &Log{
		entries:    make([]*Entry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Record appends an entry, evicting the oldest when at capacity. A missing
// ID or timestamp is filled in; oversized bodies are truncated.
func (l *Log) Record(entry *Entry) {
	if entry == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		l.nextID++
		entry.ID = fmt.Sprintf("req-%d", l.nextID)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if len(entry.Body) > maxBodyCapture {
		entry.Body = entry.Body[:maxBodyCapture]
	}

	if len(l.entries) >= l.maxEntries {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
}

// Get retrieves an entry by ID, or nil.
func (l *Log) Get(id string) *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

// List returns entries newest first, optionally filtered.
func (l *Log) List(filter *Filter) []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Entry, 0, len(l.entries))
	skipped := 0
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if filter != nil {
			if !matchesFilter(entry, filter) {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
			if filter.Limit > 0 && len(result) >= filter.Limit {
				break
			}
		}
		result = append(result, entry)
	}
	return result
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Count returns the number of stored entries.
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func matchesFilter(entry *Entry, filter *Filter) bool {
	if filter.Method != "" && !strings.EqualFold(entry.Method, filter.Method) {
		return false
	}
	if filter.Path != "" && !strings.HasPrefix(entry.Path, filter.Path) {
		return false
	}
	if filter.MatchedID != "" && entry.MatchedID != filter.MatchedID {
		return false
	}
	if filter.ResourceID != "" && entry.ResourceID != filter.ResourceID {
		return false
	}
	if filter.StatusCode != 0 && entry.ResponseStatus != filter.StatusCode {
		return false
	}
	return true
}
