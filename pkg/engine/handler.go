package engine

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SaaSy-Solutions/statemock/pkg/logging"
	"github.com/SaaSy-Solutions/statemock/pkg/mock"
	"github.com/SaaSy-Solutions/statemock/pkg/requestlog"
	"github.com/SaaSy-Solutions/statemock/pkg/stateful"
)

// MaxRequestBodySize bounds how much of a request body is read (10 MB).
const MaxRequestBodySize = 10 << 20

// adminPrefix is the path prefix reserved for the admin API.
const adminPrefix = "/__statemock/"

// statusCoder is implemented by errors that carry an HTTP status.
type statusCoder interface{ StatusCode() int }

// hinter is implemented by errors that carry a remediation hint.
type hinter interface{ Hint() string }

// Handler routes incoming requests: admin API first, then the stateful
// engine, then static definitions, then 404.
type Handler struct {
	registry      *mock.Registry
	state         *stateful.Engine
	log           *slog.Logger
	requests      *requestlog.Log
	adminDisabled bool
}

// NewHandler creates a Handler over a registry and stateful engine.
func NewHandler(registry *mock.Registry, state *stateful.Engine, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{
		registry: registry,
		state:    state,
		log:      log,
		requests: requestlog.NewLog(requestlog.DefaultCapacity),
	}
}

// RequestLog exposes the served-request history.
func (h *Handler) RequestLog() *requestlog.Log {
	return h.requests
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if strings.HasPrefix(r.URL.Path, adminPrefix) {
		if h.adminDisabled {
			h.writeNotFound(w, r, start, nil)
			return
		}
		h.handleAdmin(w, r)
		return
	}

	// Read the whole body up front: extractors and matchers may need to
	// inspect it more than once. MaxBytesReader errors instead of silently
	// truncating oversized payloads.
	var body []byte
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.log.Warn("request body too large", "path", r.URL.Path, "limit", MaxRequestBodySize)
				writeJSONError(w, http.StatusRequestEntityTooLarge, "body_too_large",
					"request body exceeds maximum allowed size", "")
				return
			}
			h.log.Warn("failed to read request body", "path", r.URL.Path, "error", err)
		}
	}

	// Stateful endpoints take priority over static definitions.
	if resp, err := h.state.ProcessRequest(stateful.RequestFromHTTP(r, body)); err != nil {
		if !isExtractionError(err) {
			h.log.Error("stateful processing failed",
				"method", r.Method, "path", r.URL.Path, "error", err)
			h.writeError(w, err)
			h.logRequest(r, start, errorStatus(err), "stateful", body, nil)
			return
		}
		// The configuration does not apply to this request; fall back to
		// static matching.
		h.log.Debug("stateful extraction failed, falling back",
			"method", r.Method, "path", r.URL.Path, "error", err)
	} else if resp != nil {
		h.writeStatefulResponse(w, resp)
		h.logRequest(r, start, resp.StatusCode, "stateful:"+resp.ResourceID, body, resp)
		return
	}

	if m, ok := h.registry.FindForRequest(r, body); ok {
		status := h.serveMock(w, r, m, body)
		h.logRequest(r, start, status, m.ID, body, nil)
		return
	}

	h.writeNotFound(w, r, start, body)
}

// serveMock writes a static definition's response, running the definition's
// inline state machine first when one is attached.
func (h *Handler) serveMock(w http.ResponseWriter, r *http.Request, m *mock.Mock, body []byte) int {
	resp := m.Response

	var instance *stateful.ResourceState
	if m.Stateful != nil {
		info, err := h.state.ProcessScenario(stateful.RequestFromHTTP(r, body),
			m.Stateful.ResourceType, m.Stateful.IDExtract,
			m.Stateful.InitialState, m.Stateful.Transitions)
		if err != nil {
			if !isExtractionError(err) {
				h.writeError(w, err)
				return errorStatus(err)
			}
			h.log.Debug("scenario extraction failed, serving static response",
				"mock", m.ID, "error", err)
		} else {
			instance = &stateful.ResourceState{
				ResourceID:   info.ResourceID,
				ResourceType: info.ResourceType,
				CurrentState: info.CurrentState,
				StateData:    info.StateData,
			}
		}
	}

	if resp == nil {
		// A stateful-only definition with nothing to serve statically.
		writeJSONError(w, http.StatusInternalServerError, "no_response",
			"definition has no response configured", "")
		return http.StatusInternalServerError
	}

	if resp.DelayMs > 0 {
		select {
		case <-time.After(time.Duration(resp.DelayMs) * time.Millisecond):
		case <-r.Context().Done():
			return http.StatusServiceUnavailable
		}
	}

	responseBody := resp.Body
	if instance != nil {
		responseBody = stateful.RenderTemplate(responseBody, instance)
	}

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if w.Header().Get("Content-Type") == "" {
		if looksLikeJSON(responseBody) {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(responseBody))
	return status
}

func (h *Handler) writeStatefulResponse(w http.ResponseWriter, resp *stateful.Response) {
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}

func (h *Handler) writeNotFound(w http.ResponseWriter, r *http.Request, start time.Time, body []byte) {
	writeJSONError(w, http.StatusNotFound, "no_mock_matched",
		"no mock definition matched this request",
		"Check the configured matchers against the request method, path, query parameters, and headers.")
	h.logRequest(r, start, http.StatusNotFound, "", body, nil)
}

// writeError renders a processing error. Errors that know their status and
// hint use them; everything else is a 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	hint := ""
	var hr hinter
	if errors.As(err, &hr) {
		hint = hr.Hint()
	}
	writeJSONError(w, status, "stateful_error", err.Error(), hint)
}

func errorStatus(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

func writeJSONError(w http.ResponseWriter, status int, code, message, hint string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]string{"error": code, "message": message}
	if hint != "" {
		payload["hint"] = hint
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// isExtractionError reports whether the error means "this stateful
// configuration does not apply to this request" rather than a defect.
func isExtractionError(err error) bool {
	var extractErr *stateful.ExtractError
	var bodyErr *stateful.BodyError
	var pathErr *stateful.JSONPathError
	return errors.As(err, &extractErr) || errors.As(err, &bodyErr) || errors.As(err, &pathErr)
}

func (h *Handler) logRequest(r *http.Request, start time.Time, status int, matched string, body []byte, stateResp *stateful.Response) {
	entry := &requestlog.Entry{
		Method:         r.Method,
		Path:           r.URL.Path,
		QueryString:    r.URL.RawQuery,
		Body:           string(body),
		BodySize:       len(body),
		RemoteAddr:     r.RemoteAddr,
		MatchedID:      matched,
		ResponseStatus: status,
		DurationMs:     int(time.Since(start).Milliseconds()),
	}
	if stateResp != nil {
		entry.ResourceID = stateResp.ResourceID
		entry.StateFrom = stateResp.PreviousState
		entry.StateTo = stateResp.State
	}
	h.requests.Record(entry)

	h.log.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"matched", matched,
		"duration_ms", time.Since(start).Milliseconds())
}

func looksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
