// Package stateful implements lifecycle state machines for mocked resources.
//
// A stateful endpoint tracks a named state per resource instance (for example
// one order, identified by its ID) and serves a different canned response
// depending on that state. Requests can trigger transitions between states,
// so a sequence of calls against the same resource observes a progression
// such as pending -> paid -> shipped instead of a single static response.
//
// The package has four moving parts:
//
//   - IDExtractor pulls a stable resource identity out of each request
//     (path segment, JSON body field, header, or query parameter).
//   - Store holds the live state instances, keyed by resource ID. All
//     reads and transitions go through its mutex, and a transition is
//     decided and applied inside one critical section so concurrent
//     requests against the same resource serialize cleanly.
//   - TransitionTrigger rules decide, per request, whether the instance
//     moves to a new state. The first matching trigger wins.
//   - StateResponse templates render the response for whatever state the
//     instance ends up in, with {{state}}, {{resource_id}} and
//     {{state_data.KEY}} placeholders.
//
// The Engine ties these together: register a Config per path pattern, then
// feed requests through ProcessRequest.
package stateful
