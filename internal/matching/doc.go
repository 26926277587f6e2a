// Package matching provides request matching algorithms: segment-wise path
// pattern matching with {param}, * and ** placeholders, plain wildcard URL
// matching for static mock definitions, and header/query/body condition
// checks.
//
// Path patterns are compiled once at configuration load time (see Compile);
// the per-request hot path only walks pre-split segments.
package matching
