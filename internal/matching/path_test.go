package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"exact match", "/api/health", "/api/health", true},
		{"exact mismatch", "/api/health", "/api/health/check", false},
		{"named param matches one segment", "/orders/{id}", "/orders/123", true},
		{"named param does not span segments", "/orders/{id}", "/orders/123/items", false},
		{"named param requires a segment", "/orders/{id}", "/orders", false},
		{"multiple named params", "/users/{user_id}/orders/{order_id}", "/users/1/orders/2", true},
		{"star matches exactly one segment", "/api/*", "/api/users", true},
		{"star does not span segments", "/api/*", "/api/users/123", false},
		{"star requires a segment", "/api/*", "/api", false},
		{"double star matches zero segments", "/api/**", "/api", true},
		{"double star matches one segment", "/api/**", "/api/v1", true},
		{"double star matches many segments", "/api/**", "/api/v1/users", true},
		{"double star in the middle", "/api/**/items", "/api/v1/users/items", true},
		{"double star in the middle zero", "/api/**/items", "/api/items", true},
		{"double star backtracks", "/a/**/b/**/c", "/a/x/b/y/b/z/c", true},
		{"trailing literal after double star", "/api/**/items", "/api/v1/users", false},
		{"trailing slash ignored", "/orders/{id}", "/orders/123/", true},
		{"root pattern", "/", "/", true},
		{"mixed param and star", "/v1/{tenant}/*/status", "/v1/acme/jobs/status", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.pattern)
			assert.Equal(t, tt.want, p.Matches(tt.path))
		})
	}
}

func TestCompileUnparsableFallsBackToExact(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"empty braces", "/orders/{}"},
		{"unclosed brace", "/orders/{id"},
		{"nested braces", "/orders/{{id}}"},
		{"brace in middle", "/orders/x{id}y/z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.pattern)
			require.True(t, p.IsExact())
			// Exact mode matches only the literal pattern text.
			assert.True(t, p.Matches(tt.pattern))
			assert.False(t, p.Matches("/orders/123"))
		})
	}
}

func TestMatchPathConvenience(t *testing.T) {
	assert.True(t, MatchPath("/orders/{id}", "/orders/123"))
	assert.False(t, MatchPath("/orders/{id}", "/orders/123/items"))
	assert.True(t, MatchPath("/api/**", "/api"))
	assert.True(t, MatchPath("/api/**", "/api/v1/users"))
}

func TestPatternString(t *testing.T) {
	assert.Equal(t, "/orders/{id}", Compile("/orders/{id}").String())
}

func TestMatchWildcardPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"exact", "/api/users", "/api/users", true},
		{"bare star matches everything", "*", "/anything/at/all", true},
		{"no wildcard mismatch", "/api/users", "/api/orders", false},
		{"single star one segment", "/api/*/detail", "/api/users/detail", true},
		{"single star not multiple", "/api/*", "/api/a/b", false},
		{"double star suffix", "/api/**", "/api/a/b/c", true},
		{"double star zero", "/api/**", "/api", true},
		{"braces are literal here", "/orders/{id}", "/orders/123", false},
		{"braces literal exact", "/orders/{id}", "/orders/{id}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchWildcardPath(tt.pattern, tt.path))
		})
	}
}
