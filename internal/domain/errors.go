package domain

import "errors"

// Domain errors represent error conditions in vtcheck.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrStartupTransport is returned when the transport cannot be opened or configured.
	ErrStartupTransport = errors.New("vtcheck: transport startup failed")

	// ErrRuntimeTransport is returned when a write fails while a case is running.
	ErrRuntimeTransport = errors.New("vtcheck: transport write failed")

	// ErrInvalidSelection is returned for a menu key that names no entry.
	ErrInvalidSelection = errors.New("vtcheck: invalid selection")

	// ErrDuplicateCase is returned when two test cases share an id.
	ErrDuplicateCase = errors.New("vtcheck: duplicate test case id")

	// ErrReservedID is returned when a test case claims a control id.
	ErrReservedID = errors.New("vtcheck: reserved test case id")

	// ErrInvalidCase is returned for a test case without an id or procedure.
	ErrInvalidCase = errors.New("vtcheck: invalid test case")

	// ErrInvalidTransition is returned when the harness state machine rejects a move.
	ErrInvalidTransition = errors.New("vtcheck: invalid state transition")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("vtcheck: invalid configuration")
)
