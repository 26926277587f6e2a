// Package engine provides the statemock HTTP server: it wires the stateful
// engine, the mock registry, and the admin API behind one http.Handler and
// manages the listener lifecycle.
package engine
