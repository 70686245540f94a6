package dds

import "errors"

// Conditions reported to the engine. None of them are fatal; callers may skip
// the event, log it, or abandon the session.
var (
	// ErrInvalidInput is returned for negative or non-finite points and rewards.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotInitialized is returned when a session method is called on a
	// nil or zero-value Session.
	ErrSessionNotInitialized = errors.New("session not initialized")

	// ErrInvalidConfiguration is returned by InitSession and the constructors
	// when pacing, scaling or cap settings cannot be used.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
