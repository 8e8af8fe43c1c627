package session

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docpreview/pkg/document"
)

// Save hands the current draft to the save collaborator. While the call is
// outstanding the saving flag is set and every editing operation is
// rejected, so no structural edit can race the in-flight save. On rejection
// the collaborator's message lands on the shared error channel, the flag
// clears, and save remains retryable. On success the session completes and
// ownership of the draft passes to the caller.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	if s.collab.Save == nil {
		return nil, ErrNoSaver
	}

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return nil, ErrSessionComplete
	}
	if s.saving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	s.saving = true
	s.lastErr = ""
	draft := document.Clone(s.draft)
	s.mu.Unlock()

	result, err := s.collab.Save(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		s.lastErr = err.Error()
		return nil, fmt.Errorf("session: save: %w", err)
	}
	s.done = true
	return result, nil
}

// SaveAndContinue saves the draft and, only on success, forwards the save
// result to the follow-on callback. A failed save never enters the secondary
// workflow.
func (s *Session) SaveAndContinue(ctx context.Context, next func(*SaveResult)) error {
	result, err := s.Save(ctx)
	if err != nil {
		return err
	}
	if next != nil {
		next(result)
	}
	return nil
}

// Cancel runs the exit protocol for discarding the session. When the draft
// is modified, confirm gates the destructive discard; declining leaves the
// session exactly as it was and the cancel collaborator is not called. When
// unmodified, or once confirmed, the cancel collaborator runs exactly once
// and the session completes. The return reports whether the cancel went
// through. A nil confirm skips the gate.
func (s *Session) Cancel(confirm func() bool) bool {
	s.mu.Lock()
	if s.done || s.saving {
		s.mu.Unlock()
		return false
	}
	modified := !document.Equal(s.draft, s.snapshot)
	s.mu.Unlock()

	if modified && confirm != nil && !confirm() {
		return false
	}

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return false
	}
	s.done = true
	s.mu.Unlock()

	if s.collab.Cancel != nil {
		s.collab.Cancel()
	}
	return true
}
