package mock

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpMock(name, method, path string) *Mock {
	return &Mock{
		Name: name,
		Matcher: &HTTPMatcher{
			Method: method,
			Path:   path,
		},
		Response: &HTTPResponse{StatusCode: 200, Body: name},
	}
}

func TestRegistryAddAssignsID(t *testing.T) {
	r := NewRegistry()
	m := httpMock("users", "GET", "/users")
	r.Add(m)

	require.NotEmpty(t, m.ID)
	got, ok := r.Get(m.ID)
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryFindMatching(t *testing.T) {
	r := NewRegistry()
	r.Add(httpMock("list-users", "GET", "/users"))
	r.Add(httpMock("get-user", "GET", "/users/*"))
	r.Add(httpMock("anything", "GET", "/api/**"))

	tests := []struct {
		name     string
		criteria *Criteria
		want     string
		found    bool
	}{
		{"exact path", &Criteria{Method: "GET", Path: "/users"}, "list-users", true},
		{"single wildcard", &Criteria{Method: "GET", Path: "/users/42"}, "get-user", true},
		{"double wildcard", &Criteria{Method: "GET", Path: "/api/v2/things"}, "anything", true},
		{"method must be identical", &Criteria{Method: "POST", Path: "/users"}, "", false},
		{"no path match", &Criteria{Method: "GET", Path: "/orders"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.FindMatching(tt.criteria)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, m.Name)
			}
		})
	}
}

func TestRegistryFindMatchingDeclarationOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(httpMock("first", "GET", "/users/*"))
	r.Add(httpMock("second", "GET", "/users/*"))

	m, ok := r.FindMatching(&Criteria{Method: "GET", Path: "/users/1"})
	require.True(t, ok)
	assert.Equal(t, "first", m.Name)
}

func TestRegistryFindMatchingWalksRootBeforeFolders(t *testing.T) {
	r := NewRegistry()
	r.AddFolder(&Folder{
		Name:  "admin",
		Mocks: []*Mock{httpMock("in-folder", "GET", "/users/*")},
		Folders: []*Folder{
			{Name: "nested", Mocks: []*Mock{httpMock("nested", "GET", "/nested")}},
		},
	})
	r.Add(httpMock("at-root", "GET", "/users/*"))

	// Root definitions win over folder definitions even when the folder was
	// registered first.
	m, ok := r.FindMatching(&Criteria{Method: "GET", Path: "/users/1"})
	require.True(t, ok)
	assert.Equal(t, "at-root", m.Name)

	// Nested folder definitions are reachable.
	m, ok = r.FindMatching(&Criteria{Method: "GET", Path: "/nested"})
	require.True(t, ok)
	assert.Equal(t, "nested", m.Name)
}

func TestRegistryFindMatchingQueryAndHeaderCriteria(t *testing.T) {
	r := NewRegistry()
	withConstraints := httpMock("constrained", "GET", "/search")
	withConstraints.Matcher.QueryParams = map[string]string{"q": "golang", "page": "1"}
	withConstraints.Matcher.Headers = map[string]string{"X-Tenant": "acme"}
	r.Add(withConstraints)

	// Criteria naming a subset of the declared params with equal values match.
	_, ok := r.FindMatching(&Criteria{
		Method:      "GET",
		Path:        "/search",
		QueryParams: map[string]string{"q": "golang"},
	})
	assert.True(t, ok)

	// A criterion the definition does not declare (or declares differently)
	// rejects the match.
	_, ok = r.FindMatching(&Criteria{
		Method:      "GET",
		Path:        "/search",
		QueryParams: map[string]string{"q": "rust"},
	})
	assert.False(t, ok)

	_, ok = r.FindMatching(&Criteria{
		Method:  "GET",
		Path:    "/search",
		Headers: map[string]string{"X-Tenant": "other"},
	})
	assert.False(t, ok)
}

func TestRegistryFindMatchingBracesAreLiteral(t *testing.T) {
	r := NewRegistry()
	r.Add(httpMock("templated", "GET", "/users/{id}"))

	// No {param} semantics in definition URLs: only the literal text matches.
	_, ok := r.FindMatching(&Criteria{Method: "GET", Path: "/users/42"})
	assert.False(t, ok)

	_, ok = r.FindMatching(&Criteria{Method: "GET", Path: "/users/{id}"})
	assert.True(t, ok)
}

func TestRegistryDisabledMocksAreSkipped(t *testing.T) {
	r := NewRegistry()
	disabled := httpMock("disabled", "GET", "/users")
	off := false
	disabled.Enabled = &off
	r.Add(disabled)
	r.Add(httpMock("enabled", "GET", "/users"))

	m, ok := r.FindMatching(&Criteria{Method: "GET", Path: "/users"})
	require.True(t, ok)
	assert.Equal(t, "enabled", m.Name)
}

func TestRegistryFindForRequest(t *testing.T) {
	r := NewRegistry()

	anyMethod := httpMock("any-method", "", "/ping")
	anyMethod.Matcher.Method = ""
	r.Add(anyMethod)

	jsonGated := httpMock("json-gated", "POST", "/orders")
	jsonGated.Matcher.BodyJSONPath = map[string]any{"$.kind": "express"}
	r.Add(jsonGated)

	headerGated := httpMock("header-gated", "GET", "/private")
	headerGated.Matcher.Headers = map[string]string{"X-Api-Key": "secret"}
	r.Add(headerGated)

	t.Run("empty method matches any", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/ping", nil)
		m, ok := r.FindForRequest(req, nil)
		require.True(t, ok)
		assert.Equal(t, "any-method", m.Name)
	})

	t.Run("body jsonpath must hold", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/orders", nil)
		m, ok := r.FindForRequest(req, []byte(`{"kind":"express"}`))
		require.True(t, ok)
		assert.Equal(t, "json-gated", m.Name)

		_, ok = r.FindForRequest(req, []byte(`{"kind":"standard"}`))
		assert.False(t, ok)
	})

	t.Run("declared headers must be present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		_, ok := r.FindForRequest(req, nil)
		assert.False(t, ok)

		req.Header.Set("X-Api-Key", "secret")
		m, ok := r.FindForRequest(req, nil)
		require.True(t, ok)
		assert.Equal(t, "header-gated", m.Name)
	})
}

func TestRegistryListAndClear(t *testing.T) {
	r := NewRegistry()
	r.Add(httpMock("root", "GET", "/a"))
	r.AddFolder(&Folder{
		Name:  "f",
		Mocks: []*Mock{httpMock("foldered", "GET", "/b")},
	})

	all := r.List()
	require.Len(t, all, 2)
	assert.Equal(t, "root", all[0].Name)
	assert.Equal(t, "foldered", all[1].Name)

	// Folder membership is recorded on the definition.
	assert.NotEmpty(t, all[1].ParentID)

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.List())
}
