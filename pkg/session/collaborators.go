package session

import (
	"context"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
)

// SaveResult is what the save collaborator may hand back on success. Ref
// optionally carries a created-document locator that the save-and-continue
// flow forwards to its follow-on callback.
type SaveResult struct {
	Ref string
}

// SuggestRequest carries everything the suggestion collaborator needs to
// compute an improved value for one field. Context is a copy of the full
// draft at request time; mutating it has no effect on the session.
type SuggestRequest struct {
	FieldID       string
	FieldType     schema.FieldType
	CurrentValue  any
	DocumentTitle string
	SubjectID     string
	Context       document.Record
}

// SaveFunc persists the final draft. It may reject with a human-readable
// message, which the session surfaces on its shared error channel.
type SaveFunc func(ctx context.Context, draft document.Record) (*SaveResult, error)

// SuggestFunc computes a candidate replacement value for one field. The
// returned value must match the field's expected shape: a string for scalar
// fields, an ordered list of strings for list-shaped ones.
type SuggestFunc func(ctx context.Context, req SuggestRequest) (any, error)

// Collaborators bundles the external systems a session calls but does not
// implement. Cancel is invoked only after the discard gate passes. The
// optional DataSources list is display-only; the engine never interprets it.
type Collaborators struct {
	Save        SaveFunc
	Cancel      func()
	Suggest     SuggestFunc
	DataSources []schema.DataSource
}
