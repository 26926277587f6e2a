package engine

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/SaaSy-Solutions/statemock/pkg/requestlog"
)

// handleAdmin serves the /__statemock/ admin API: health probes, state
// machine introspection, and state steering for test setups.
func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, adminPrefix)

	switch {
	case rest == "health":
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	case rest == "ready":
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})

	case rest == "state" && r.Method == http.MethodGet:
		h.writeJSON(w, http.StatusOK, map[string]any{
			"instances": h.state.Store().Len(),
			"by_type":   h.state.Store().Overview(),
		})

	case rest == "state/instances" && r.Method == http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.state.Store().List())

	case strings.HasPrefix(rest, "state/instances/"):
		h.handleInstance(w, r, strings.TrimPrefix(rest, "state/instances/"))

	case rest == "state/reset" && r.Method == http.MethodPost:
		h.state.Store().Reset()
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})

	case rest == "mocks" && r.Method == http.MethodGet:
		h.writeMockList(w)

	case rest == "requests" && r.Method == http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.requests.List(requestFilterFromQuery(r)))

	case rest == "requests" && r.Method == http.MethodDelete:
		h.requests.Clear()
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	case strings.HasPrefix(rest, "requests/") && r.Method == http.MethodGet:
		id := strings.TrimPrefix(rest, "requests/")
		entry := h.requests.Get(id)
		if entry == nil {
			writeJSONError(w, http.StatusNotFound, "entry_not_found",
				"no request log entry "+id, "")
			return
		}
		h.writeJSON(w, http.StatusOK, entry)

	default:
		writeJSONError(w, http.StatusNotFound, "unknown_admin_route",
			"unknown admin route: "+r.URL.Path, "")
	}
}

func (h *Handler) handleInstance(w http.ResponseWriter, r *http.Request, resourceID string) {
	switch r.Method {
	case http.MethodGet:
		info, ok := h.state.Store().Info(resourceID)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "instance_not_found",
				"no state instance for resource "+resourceID, "")
			return
		}
		h.writeJSON(w, http.StatusOK, info)

	case http.MethodPut:
		var req struct {
			ResourceType string `json:"resource_type"`
			State        string `json:"state"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error(), "")
			return
		}
		if req.State == "" {
			writeJSONError(w, http.StatusBadRequest, "invalid_body", "state is required", "")
			return
		}
		if err := h.state.SetResourceState(resourceID, req.ResourceType, req.State); err != nil {
			h.writeError(w, err)
			return
		}
		h.log.Info("state force-set", "resource_id", resourceID, "state", req.State)
		info, _ := h.state.Store().Info(resourceID)
		h.writeJSON(w, http.StatusOK, info)

	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			r.Method+" is not supported on this route", "")
	}
}

type mockSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Method  string `json:"method,omitempty"`
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

func (h *Handler) writeMockList(w http.ResponseWriter) {
	mocks := h.registry.List()
	summaries := make([]mockSummary, 0, len(mocks))
	for _, m := range mocks {
		s := mockSummary{ID: m.ID, Name: m.Name, Enabled: m.IsEnabled()}
		if m.Matcher != nil {
			s.Method = m.Matcher.Method
			s.Path = m.Matcher.Path
		}
		summaries = append(summaries, s)
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to encode admin response", "error", err)
	}
}

// requestFilterFromQuery builds a request log filter from query parameters.
func requestFilterFromQuery(r *http.Request) *requestlog.Filter {
	q := r.URL.Query()
	filter := &requestlog.Filter{
		Method:     q.Get("method"),
		Path:       q.Get("path"),
		MatchedID:  q.Get("matched"),
		ResourceID: q.Get("resource"),
	}
	if v := q.Get("status"); v != "" {
		if status, err := strconv.Atoi(v); err == nil {
			filter.StatusCode = status
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}
	return filter
}
