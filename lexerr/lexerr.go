// Package lexerr defines the closed, five-error taxonomy every failure mode
// in this module wraps, so callers compare with errors.Is instead of
// parsing strings.
package lexerr

import "errors"

var (
	// TableCapacityExceeded is offline-only: UTF closure, or the DFA state
	// count feeding it, did not terminate within the configured bound.
	TableCapacityExceeded = errors.New("laniusc: table capacity exceeded")

	// InvalidTable means a table file failed structural checks (magic,
	// version, size arithmetic) or violates an invariant checked in debug
	// builds (merge non-associative on sampled triples, identity not
	// behaving as identity).
	InvalidTable = errors.New("laniusc: invalid table")

	// InputTooLarge means n > N_MAX.
	InputTooLarge = errors.New("laniusc: input too large")

	// UnterminatedInput means the last byte did not complete a token and
	// the final DFA state has no accepting kind.
	UnterminatedInput = errors.New("laniusc: unterminated input")

	// DeviceFailure covers any device-reported error during allocation or
	// submission. Within this module, package scan returns it when a
	// simulated workgroup cannot be scheduled because its context ended.
	DeviceFailure = errors.New("laniusc: device failure")
)
