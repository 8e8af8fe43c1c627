package session_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

func testPreview() schema.Preview {
	min, max := 0.0, 10.0
	return schema.Preview{
		Title: "Client Brief",
		Sections: []schema.Section{
			{
				ID:    "overview",
				Title: "Overview",
				Fields: []schema.Field{
					{ID: "title", Type: schema.FieldTypeText, Required: true},
					{ID: "summary", Type: schema.FieldTypeTextarea, Enhanceable: true},
					{ID: "confirmed", Type: schema.FieldTypeToggle},
					{ID: "rating", Type: schema.FieldTypeSlider, Min: &min, Max: &max},
					{ID: "channels", Type: schema.FieldTypeMultiDropdown, Options: []schema.Option{
						{Value: "email"}, {Value: "phone"}, {Value: "chat"},
					}},
				},
			},
			{
				ID:          "details",
				Title:       "Details",
				Collapsible: true,
				Fields: []schema.Field{
					{ID: "topics", Type: schema.FieldTypeList},
					{ID: "actions", Type: schema.FieldTypeStructuredList, ItemSchema: []schema.Field{
						{ID: "owner", Type: schema.FieldTypeText},
						{ID: "task", Type: schema.FieldTypeText},
					}},
				},
			},
			{
				ID:               "archive",
				Title:            "Archive",
				Collapsible:      true,
				DefaultCollapsed: true,
				Fields: []schema.Field{
					{ID: "notes", Type: schema.FieldTypeTextarea},
				},
			},
		},
	}
}

func testData() document.Record {
	return document.Record{
		"title":    "Quarterly Review",
		"summary":  "draft summary",
		"topics":   []any{"budget", "staffing"},
		"channels": []any{"email"},
		"actions": []any{
			map[string]any{"id": "a-1", "owner": "sam", "task": "send deck"},
		},
	}
}

func newTestSession(t *testing.T, collab session.Collaborators, options ...session.Option) *session.Session {
	t.Helper()
	n := 0
	options = append([]session.Option{session.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	})}, options...)
	sess, err := session.New(testPreview(), testData(), collab, options...)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return sess
}

func TestNewRejectsInvalidSchema(t *testing.T) {
	_, err := session.New(schema.Preview{Title: "x"}, nil, session.Collaborators{})
	if err == nil {
		t.Fatalf("expected schema validation error")
	}
}

func TestNewSeedsMissingFields(t *testing.T) {
	sess := newTestSession(t, session.Collaborators{})

	confirmed, ok := sess.Value("confirmed")
	if !ok || confirmed != false {
		t.Fatalf("toggle not seeded: %v (ok=%v)", confirmed, ok)
	}
	rating, ok := sess.Value("rating")
	if !ok || rating != nil {
		t.Fatalf("slider not seeded to nil: %v", rating)
	}
	notes, ok := sess.Value("notes")
	if !ok || notes != "" {
		t.Fatalf("textarea not seeded: %v", notes)
	}
	if sess.IsModified() {
		t.Fatalf("freshly opened session reports modifications")
	}
}

func TestSnapshotIsolatedFromCallerData(t *testing.T) {
	data := testData()
	sess, err := session.New(testPreview(), data, session.Collaborators{})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	data["title"] = "mutated by caller"
	data["topics"].([]any)[0] = "mutated"

	if got, _ := sess.Value("title"); got != "Quarterly Review" {
		t.Fatalf("draft shares storage with caller data: %v", got)
	}
	if got, _ := sess.OriginalValue("title"); got != "Quarterly Review" {
		t.Fatalf("snapshot shares storage with caller data: %v", got)
	}
}

func TestIsModifiedTracksEditAndRevert(t *testing.T) {
	sess := newTestSession(t, session.Collaborators{})

	if err := sess.UpdateField("title", "Annual Review"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if !sess.IsModified() {
		t.Fatalf("edit not reflected in IsModified")
	}

	if err := sess.UpdateField("title", "Quarterly Review"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if sess.IsModified() {
		t.Fatalf("reverting the edit should restore the unmodified state")
	}
}

func TestUpdateFieldUnknownID(t *testing.T) {
	sess := newTestSession(t, session.Collaborators{})
	if err := sess.UpdateField("ghost", "x"); !errors.Is(err, session.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestToggleSection(t *testing.T) {
	sess := newTestSession(t, session.Collaborators{})

	if !sess.Collapsed("archive") {
		t.Fatalf("defaultCollapsed section should start collapsed")
	}
	sess.ToggleSection("archive")
	if sess.Collapsed("archive") {
		t.Fatalf("toggle did not expand the section")
	}

	sess.ToggleSection("overview")
	if sess.Collapsed("overview") {
		t.Fatalf("non-collapsible section must ignore toggles")
	}

	sess.ToggleSection("details")
	if !sess.Collapsed("details") {
		t.Fatalf("collapsible section did not collapse")
	}
}

func TestValueReturnsCopies(t *testing.T) {
	sess := newTestSession(t, session.Collaborators{})

	value, _ := sess.Value("topics")
	value.([]any)[0] = "mutated"

	fresh, _ := sess.Value("topics")
	want := []any{"budget", "staffing"}
	if diff := cmp.Diff(want, fresh); diff != "" {
		t.Fatalf("draft mutated through Value copy (-want +got):\n%s", diff)
	}
}

func TestEditsRejectedAfterCompletion(t *testing.T) {
	sess := newTestSession(t, session.Collaborators{
		Save: func(context.Context, document.Record) (*session.SaveResult, error) {
			return &session.SaveResult{}, nil
		},
	})
	if _, err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := sess.UpdateField("title", "late edit"); err != session.ErrSessionComplete {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
	if _, err := sess.AddItem("topics"); err != session.ErrSessionComplete {
		t.Fatalf("expected ErrSessionComplete on AddItem, got %v", err)
	}
}

func TestUnknownFieldTypeEditsAsText(t *testing.T) {
	preview := schema.Preview{
		Title: "Evolved Brief",
		Sections: []schema.Section{
			{
				ID:    "overview",
				Title: "Overview",
				Fields: []schema.Field{
					// A variant this engine predates, still carrying the
					// options its own engine understands.
					{ID: "status", Type: schema.FieldType("radio"), Options: []schema.Option{
						{Value: "open"}, {Value: "closed"},
					}},
				},
			},
		},
	}

	sess, err := session.New(preview, document.Record{}, session.Collaborators{})
	if err != nil {
		t.Fatalf("unknown variant must not fail session construction: %v", err)
	}

	if err := sess.UpdateField("status", "open"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	value, _ := sess.Value("status")
	if value != "open" {
		t.Fatalf("value = %v, want plain string", value)
	}
}

func TestStructuredListWithoutItemSchemaBehavesAsList(t *testing.T) {
	preview := schema.Preview{
		Title: "Evolved Brief",
		Sections: []schema.Section{
			{
				ID:    "plan",
				Title: "Plan",
				Fields: []schema.Field{
					{ID: "steps", Type: schema.FieldTypeStructuredList},
				},
			},
		},
	}

	sess, err := session.New(preview, document.Record{"steps": []any{"triage"}}, session.Collaborators{})
	if err != nil {
		t.Fatalf("missing item schema must not fail session construction: %v", err)
	}

	idx, err := sess.AddItem("steps")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if idx != 1 {
		t.Fatalf("new index = %d, want 1", idx)
	}
	if err := sess.UpdateItem("steps", 1, "escalate"); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	value, _ := sess.Value("steps")
	if diff := cmp.Diff([]any{"triage", "escalate"}, value); diff != "" {
		t.Fatalf("field did not behave as a plain list (-want +got):\n%s", diff)
	}
}
