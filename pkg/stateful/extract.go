package stateful

import (
	"errors"
	"fmt"
	"strings"
)

// ExtractorType selects an IDExtractor strategy.
type ExtractorType string

// Extractor strategies.
const (
	ExtractPathParam  ExtractorType = "path_param"
	ExtractJSONPath   ExtractorType = "json_path"
	ExtractHeader     ExtractorType = "header"
	ExtractQueryParam ExtractorType = "query_param"
	ExtractComposite  ExtractorType = "composite"
)

// IDExtractor describes how to derive a resource's identity from a request.
// The Type field selects the strategy; the other fields are per-strategy
// parameters (Param for path_param and query_param, Path for json_path, Name
// for header, Extractors for composite).
type IDExtractor struct {
	Type       ExtractorType  `json:"type" yaml:"type"`
	Param      string         `json:"param,omitempty" yaml:"param,omitempty"`
	Path       string         `json:"path,omitempty" yaml:"path,omitempty"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Extractors []*IDExtractor `json:"extractors,omitempty" yaml:"extractors,omitempty"`
}

// Extract derives the resource ID from the request, or returns a typed error
// describing which source was missing.
func (e *IDExtractor) Extract(req *Request) (string, error) {
	switch e.Type {
	case ExtractPathParam:
		// The configured parameter name is documentation; identity comes
		// from the last path segment, which is where REST-style routes
		// place it.
		segments := strings.Split(req.Path, "/")
		for i := len(segments) - 1; i >= 0; i-- {
			if segments[i] != "" {
				return segments[i], nil
			}
		}
		return "", &ExtractError{Source: "path_param", Name: e.Param, Reason: "path has no segments"}

	case ExtractJSONPath:
		doc, err := parseJSONBody(req.Body)
		if err != nil {
			return "", err
		}
		return extractJSONPath(doc, e.Path)

	case ExtractHeader:
		if v := req.Header.Get(e.Name); v != "" {
			return v, nil
		}
		return "", &ExtractError{Source: "header", Name: e.Name, Reason: "header not present"}

	case ExtractQueryParam:
		if vs, ok := req.Query[e.Param]; ok && len(vs) > 0 {
			return vs[0], nil
		}
		return "", &ExtractError{Source: "query_param", Name: e.Param, Reason: "query parameter not present"}

	case ExtractComposite:
		for _, sub := range e.Extractors {
			if id, err := sub.Extract(req); err == nil {
				return id, nil
			}
		}
		return "", &ExtractError{Source: "composite", Reason: "no extractor produced a resource ID"}

	default:
		return "", &ExtractError{Source: string(e.Type), Reason: "unknown extractor type"}
	}
}

// Validate checks the extractor configuration at load time.
func (e *IDExtractor) Validate() error {
	if e == nil {
		return errors.New("resource_id_extract is required")
	}
	switch e.Type {
	case ExtractPathParam:
		if e.Param == "" {
			return errors.New("path_param extractor requires param")
		}
	case ExtractJSONPath:
		if e.Path == "" {
			return errors.New("json_path extractor requires path")
		}
	case ExtractHeader:
		if e.Name == "" {
			return errors.New("header extractor requires name")
		}
	case ExtractQueryParam:
		if e.Param == "" {
			return errors.New("query_param extractor requires param")
		}
	case ExtractComposite:
		if len(e.Extractors) == 0 {
			return errors.New("composite extractor requires at least one sub-extractor")
		}
		for i, sub := range e.Extractors {
			if err := sub.Validate(); err != nil {
				return fmt.Errorf("composite extractor %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown extractor type %q", e.Type)
	}
	return nil
}
