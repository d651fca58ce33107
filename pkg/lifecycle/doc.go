// Package lifecycle models the client-side view of a booking's status.
//
// The marketplace API owns the state machine. This package only projects a
// status into what the dashboard shows: a badge, a progress tracker, and the
// set of actions a role may request next. Every function is pure and safe
// for concurrent use.
package lifecycle
