package session

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docpreview/pkg/document"
)

// SuggestionState labels a field's position in the enhance workflow.
type SuggestionState string

const (
	// SuggestionIdle means no suggestion activity for the field.
	SuggestionIdle SuggestionState = "idle"
	// SuggestionLoading means a collaborator request is outstanding.
	SuggestionLoading SuggestionState = "loading"
	// SuggestionReady means a value awaits operator accept or dismiss. A
	// ready suggestion never expires on its own.
	SuggestionReady SuggestionState = "ready"
)

// Suggestion is the per-field record exposed to renderers.
type Suggestion struct {
	State SuggestionState
	Value any
}

type suggestionRecord struct {
	state SuggestionState
	value any
	// gen invalidates in-flight requests: a newer request for the same field
	// supersedes the old one, and the stale resolution is discarded when it
	// finally lands.
	gen uint64
}

// Suggestion returns the current suggestion record for a field. The second
// return is false when the field is idle.
func (s *Session) Suggestion(fieldID string) (Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.suggestions[fieldID]
	if !ok {
		return Suggestion{State: SuggestionIdle}, false
	}
	return Suggestion{State: record.state, Value: document.CloneValue(record.value)}, true
}

// RequestSuggestion asks the suggestion collaborator for an improved value
// for one field and blocks until it resolves. The field transitions to
// loading immediately; on success it holds a ready value, on failure it
// returns to idle and the error lands on the shared channel. Requesting
// again while a prior request is loading or ready supersedes it.
//
// Only the targeted field is ever touched; edits made to other fields while
// the request is outstanding are preserved.
func (s *Session) RequestSuggestion(ctx context.Context, fieldID string) error {
	field, err := s.field(fieldID)
	if err != nil {
		return err
	}
	if s.collab.Suggest == nil {
		return ErrNoSuggester
	}

	s.mu.Lock()
	if err := s.guardEdit(); err != nil {
		s.mu.Unlock()
		return err
	}

	record, ok := s.suggestions[fieldID]
	if !ok {
		record = &suggestionRecord{}
		s.suggestions[fieldID] = record
	}
	record.gen++
	record.state = SuggestionLoading
	record.value = nil
	gen := record.gen

	req := SuggestRequest{
		FieldID:       fieldID,
		FieldType:     field.Type,
		CurrentValue:  document.CloneValue(s.draft[fieldID]),
		DocumentTitle: s.preview.Title,
		SubjectID:     s.subjectID,
		Context:       document.Clone(s.draft),
	}
	s.mu.Unlock()

	value, err := s.collab.Suggest(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.suggestions[fieldID]
	if !ok || current.gen != gen {
		// Superseded while in flight; the newer request owns the field now.
		return nil
	}

	if err != nil {
		delete(s.suggestions, fieldID)
		s.lastErr = err.Error()
		return fmt.Errorf("session: suggest %q: %w", fieldID, err)
	}

	current.state = SuggestionReady
	current.value = document.CloneValue(value)
	return nil
}

// ApplySuggestion accepts a ready suggestion: the suggested value overwrites
// the field's draft value through the normal field setter and the record is
// cleared back to idle.
func (s *Session) ApplySuggestion(fieldID string) error {
	field, err := s.field(fieldID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}

	record, ok := s.suggestions[fieldID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuggestion, fieldID)
	}
	if record.state != SuggestionReady {
		return fmt.Errorf("%w: %q", ErrSuggestionNotReady, fieldID)
	}

	s.setField(field, record.value)
	delete(s.suggestions, fieldID)
	return nil
}

// DismissSuggestion rejects a ready suggestion: the draft value is untouched
// and the record is cleared back to idle.
func (s *Session) DismissSuggestion(fieldID string) error {
	if _, err := s.field(fieldID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.suggestions[fieldID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuggestion, fieldID)
	}
	if record.state != SuggestionReady {
		return fmt.Errorf("%w: %q", ErrSuggestionNotReady, fieldID)
	}

	delete(s.suggestions, fieldID)
	return nil
}
