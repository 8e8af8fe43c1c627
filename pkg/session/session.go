package session

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
)

// Session owns one editing pass over a preview document: the immutable
// original snapshot, the mutable draft, collapsed-section state, per-field
// suggestion records, and the save/cancel exit protocol. Every session is
// independent; two concurrent sessions never share state.
//
// All methods are safe for concurrent use. Mutations are synchronous with
// respect to each other; the only suspension points are the save and suggest
// collaborator calls, which run with the session lock released so a renderer
// can observe the corresponding loading flag.
type Session struct {
	mu sync.Mutex

	preview   schema.Preview
	collab    Collaborators
	subjectID string
	idgen     document.IDGenerator

	snapshot document.Record
	draft    document.Record

	collapsed   map[string]bool
	suggestions map[string]*suggestionRecord

	saving  bool
	done    bool
	lastErr string
}

// Option customises session construction.
type Option func(*Session)

// WithSubjectID attaches the identifier of the entity the document is about
// (a customer, an engagement). It is forwarded verbatim on every suggestion
// request.
func WithSubjectID(id string) Option {
	return func(s *Session) {
		s.subjectID = id
	}
}

// WithIDGenerator overrides the generated-identifier source for structured
// list items. Used by tests that need deterministic ids.
func WithIDGenerator(gen document.IDGenerator) Option {
	return func(s *Session) {
		if gen != nil {
			s.idgen = gen
		}
	}
}

// New seeds a session from a preview schema and the caller-supplied data
// record. Snapshot and draft are independent deep copies of the data; the
// caller may keep mutating its own copy without corrupting either. Collapsed
// state is initialized from each section's defaultCollapsed flag.
func New(preview schema.Preview, data document.Record, collab Collaborators, options ...Option) (*Session, error) {
	if err := preview.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		preview:     preview,
		collab:      collab,
		idgen:       document.NewID,
		collapsed:   make(map[string]bool),
		suggestions: make(map[string]*suggestionRecord),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	seeded := document.Seed(preview, data, s.idgen)
	s.snapshot = document.Clone(seeded)
	s.draft = seeded

	for _, section := range preview.Sections {
		if section.Collapsible && section.DefaultCollapsed {
			s.collapsed[section.ID] = true
		}
	}
	return s, nil
}

// Preview returns the schema this session renders and edits.
func (s *Session) Preview() schema.Preview {
	return s.preview
}

// SubjectID returns the identifier configured via WithSubjectID.
func (s *Session) SubjectID() string {
	return s.subjectID
}

// DataSources returns the display-only provenance list, if any.
func (s *Session) DataSources() []schema.DataSource {
	return s.collab.DataSources
}

// Value resolves the current draft value for a field id. The returned value
// is a copy; editing it does not touch the draft.
func (s *Session) Value(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.draft[fieldID]
	if !ok {
		return nil, false
	}
	return document.CloneValue(value), true
}

// OriginalValue resolves the snapshot value for a field id.
func (s *Session) OriginalValue(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.snapshot[fieldID]
	if !ok {
		return nil, false
	}
	return document.CloneValue(value), true
}

// Draft returns a copy of the current draft record.
func (s *Session) Draft() document.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.Clone(s.draft)
}

// IsModified reports whether the draft structurally differs from the
// snapshot. List order is significant; generated item ids are not.
func (s *Session) IsModified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !document.Equal(s.draft, s.snapshot)
}

// Saving reports whether a save collaborator call is outstanding. Editing
// controls must be disabled while it is true.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Done reports whether the session completed via save success or cancel.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the shared error channel: the message of the most recent save
// or suggestion failure, empty when none is pending.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError resets the shared error channel.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// ToggleSection flips a section's collapsed state. Non-collapsible and
// unknown section ids are ignored.
func (s *Session) ToggleSection(sectionID string) {
	for _, section := range s.preview.Sections {
		if section.ID != sectionID {
			continue
		}
		if !section.Collapsible {
			return
		}
		s.mu.Lock()
		s.collapsed[sectionID] = !s.collapsed[sectionID]
		s.mu.Unlock()
		return
	}
}

// Collapsed reports whether a section is currently collapsed.
func (s *Session) Collapsed(sectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed[sectionID]
}

// field resolves a schema field or fails with ErrUnknownField.
func (s *Session) field(fieldID string) (schema.Field, error) {
	field, ok := s.preview.Field(fieldID)
	if !ok {
		return schema.Field{}, fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	return field, nil
}

// guardEdit enforces the editing preconditions shared by every mutation:
// the session must be live and no save may be outstanding. Callers hold the
// lock.
func (s *Session) guardEdit() error {
	if s.done {
		return ErrSessionComplete
	}
	if s.saving {
		return ErrSaveInFlight
	}
	return nil
}
