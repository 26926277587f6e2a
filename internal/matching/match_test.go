package matching

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Api-Key", "secret")

	assert.True(t, MatchHeader("content-type", "application/json", headers))
	assert.False(t, MatchHeader("Content-Type", "text/plain", headers))
	assert.True(t, MatchHeaders(map[string]string{
		"Content-Type": "application/json",
		"X-Api-Key":    "secret",
	}, headers))
	assert.False(t, MatchHeaders(map[string]string{
		"Content-Type": "application/json",
		"X-Api-Key":    "wrong",
	}, headers))
	assert.True(t, MatchHeaders(nil, headers))
}

func TestMatchQueryParams(t *testing.T) {
	params := url.Values{}
	params.Set("status", "active")
	params.Set("page", "2")

	assert.True(t, MatchQueryParam("status", "active", params))
	assert.False(t, MatchQueryParam("status", "inactive", params))
	assert.True(t, MatchQueryParams(map[string]string{"status": "active", "page": "2"}, params))
	assert.False(t, MatchQueryParams(map[string]string{"missing": "x"}, params))
	assert.True(t, MatchQueryParams(nil, params))
	assert.True(t, HasQueryParam("page", params))
	assert.False(t, HasQueryParam("missing", params))
}
