package session

import "errors"

var (
	// ErrSaveInFlight signals that an edit or second save was attempted while
	// a save is outstanding. Controls are expected to be disabled during a
	// save; this guard holds even when a caller bypasses the UI.
	ErrSaveInFlight = errors.New("session: save in flight")
	// ErrSessionComplete signals an operation against a session that already
	// saved or cancelled. The draft's ownership has passed to the caller.
	ErrSessionComplete = errors.New("session: session complete")
	// ErrUnknownField signals a field id the schema does not declare.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrNoSuggestion signals an apply/dismiss for a field with no pending
	// suggestion.
	ErrNoSuggestion = errors.New("session: no suggestion for field")
	// ErrSuggestionNotReady signals an apply/dismiss while the suggestion is
	// still loading.
	ErrSuggestionNotReady = errors.New("session: suggestion not ready")
	// ErrNoSuggester signals an enhance request without a configured
	// suggestion collaborator.
	ErrNoSuggester = errors.New("session: suggest collaborator not configured")
	// ErrNoSaver signals a save without a configured save collaborator.
	ErrNoSaver = errors.New("session: save collaborator not configured")
)
