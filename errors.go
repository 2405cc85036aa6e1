package laniusc

import "github.com/Andrewp2/laniusc/lexerr"

// The closed error taxonomy this module reports. Each is a sentinel
// suitable for errors.Is; Lex and Construct wrap them with context via
// fmt.Errorf's %w.
var (
	ErrTableCapacityExceeded = lexerr.TableCapacityExceeded
	ErrInvalidTable          = lexerr.InvalidTable
	ErrInputTooLarge         = lexerr.InputTooLarge
	ErrUnterminatedInput     = lexerr.UnterminatedInput
	ErrDeviceFailure         = lexerr.DeviceFailure
)
