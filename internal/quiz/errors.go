package quiz

import "errors"

var (
	// ErrBusy is returned when a request is already outstanding.
	ErrBusy = errors.New("a request is already in flight")

	// ErrStale is returned when a response arrives after the session it
	// belonged to was reset or replaced. The response is discarded.
	ErrStale = errors.New("response discarded: session was reset")

	// ErrInvalidPhase is returned when an operation is not allowed in the
	// controller's current phase.
	ErrInvalidPhase = errors.New("operation not allowed in current phase")

	// ErrQuestionMismatch is returned when an answer targets a question
	// other than the one currently shown.
	ErrQuestionMismatch = errors.New("answer does not match the current question")

	// ErrInvalidInput is returned for empty area, difficulty or option.
	ErrInvalidInput = errors.New("invalid input")
)
