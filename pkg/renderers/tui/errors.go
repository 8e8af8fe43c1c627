package tui

import "errors"

var (
	// ErrAborted signals the operator aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrCancelled signals the operator cancelled the session; the draft was
	// discarded after the confirmation gate passed.
	ErrCancelled = errors.New("tui: session cancelled")
)
