package tui_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/renderers/tui"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

// scriptDriver feeds queued answers to the editing loop and records every
// informational message.
type scriptDriver struct {
	t            *testing.T
	selects      []int
	inputs       []string
	confirms     []bool
	multis       [][]int
	infos        []string
	selectLabels [][]string
}

func (d *scriptDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	d.selectLabels = append(d.selectLabels, cfg.Options)
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected Select(%q) with options %v", cfg.Message, cfg.Options)
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	if next >= len(cfg.Options) {
		d.t.Fatalf("scripted index %d out of range for options %v", next, cfg.Options)
	}
	return next, nil
}

func (d *scriptDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected Input(%q)", cfg.Message)
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected Confirm(%q)", cfg.Message)
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *scriptDriver) MultiSelect(_ context.Context, cfg tui.SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		d.t.Fatalf("unexpected MultiSelect(%q)", cfg.Message)
	}
	next := d.multis[0]
	d.multis = d.multis[1:]
	return next, nil
}

func (d *scriptDriver) TextArea(ctx context.Context, cfg tui.TextAreaConfig) (string, error) {
	return d.Input(ctx, tui.InputConfig{Message: cfg.Message, Default: cfg.Default})
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func editorPreview() schema.Preview {
	return schema.Preview{
		Title: "Visit Summary",
		Sections: []schema.Section{
			{
				ID:    "overview",
				Title: "Overview",
				Fields: []schema.Field{
					{ID: "title", Type: schema.FieldTypeText},
					{ID: "summary", Type: schema.FieldTypeTextarea, Enhanceable: true},
				},
			},
			{
				ID:    "agenda",
				Title: "Agenda",
				Fields: []schema.Field{
					{ID: "topics", Type: schema.FieldTypeList},
				},
			},
		},
	}
}

func editorData() document.Record {
	return document.Record{
		"title":   "old title",
		"summary": "old summary",
		"topics":  []any{"alpha", "beta"},
	}
}

func newEditorSession(t *testing.T, collab session.Collaborators) *session.Session {
	t.Helper()
	n := 0
	sess, err := session.New(editorPreview(), editorData(), collab,
		session.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		}))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return sess
}

func TestRunEditAndSave(t *testing.T) {
	var saved document.Record
	sess := newEditorSession(t, session.Collaborators{
		Save: func(_ context.Context, draft document.Record) (*session.SaveResult, error) {
			saved = draft
			return &session.SaveResult{Ref: "visit-1"}, nil
		},
	})

	driver := &scriptDriver{
		t: t,
		// Open Overview, edit the title, back out, then save.
		selects: []int{0, 0, 2, 2},
		inputs:  []string{"New Title"},
	}

	renderer := tui.New(tui.WithPromptDriver(driver))
	out, err := renderer.Run(context.Background(), sess)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if saved["title"] != "New Title" {
		t.Fatalf("save received %q, want New Title", saved["title"])
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["title"] != "New Title" {
		t.Fatalf("serialized output stale: %v", decoded["title"])
	}
	if !sess.Done() {
		t.Fatalf("session should complete after save")
	}
}

func TestRunCancelUnmodified(t *testing.T) {
	cancelCalls := 0
	sess := newEditorSession(t, session.Collaborators{
		Cancel: func() { cancelCalls++ },
	})

	driver := &scriptDriver{
		t:       t,
		selects: []int{3}, // Cancel sits after the two sections and Save.
	}

	_, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess)
	if !errors.Is(err, tui.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if cancelCalls != 1 {
		t.Fatalf("cancel collaborator ran %d times, want 1", cancelCalls)
	}
}

func TestRunCancelModifiedDeclined(t *testing.T) {
	sess := newEditorSession(t, session.Collaborators{
		Save: func(context.Context, document.Record) (*session.SaveResult, error) {
			return &session.SaveResult{}, nil
		},
	})

	driver := &scriptDriver{
		t: t,
		// Edit the title, try to cancel (declined), then save instead.
		selects:  []int{0, 0, 2, 3, 2},
		inputs:   []string{"edited"},
		confirms: []bool{false},
	}

	if _, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, _ := sess.Value("title"); got != "edited" {
		t.Fatalf("declined cancel lost the edit: %v", got)
	}
}

func TestRunEnhanceWorkflow(t *testing.T) {
	sess := newEditorSession(t, session.Collaborators{
		Save: func(context.Context, document.Record) (*session.SaveResult, error) {
			return &session.SaveResult{}, nil
		},
		Suggest: func(_ context.Context, req session.SuggestRequest) (any, error) {
			if req.FieldID != "summary" {
				return nil, fmt.Errorf("unexpected field %q", req.FieldID)
			}
			return "A polished summary.", nil
		},
	})

	driver := &scriptDriver{
		t: t,
		// Overview -> summary -> request improvement -> back -> save.
		selects:  []int{0, 1, 1, 2, 2},
		confirms: []bool{true}, // apply the suggestion
	}

	if _, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, _ := sess.Value("summary"); got != "A polished summary." {
		t.Fatalf("suggestion not applied: %v", got)
	}
}

func TestRunSaveFailureStaysInteractive(t *testing.T) {
	attempts := 0
	sess := newEditorSession(t, session.Collaborators{
		Save: func(context.Context, document.Record) (*session.SaveResult, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("network error")
			}
			return &session.SaveResult{}, nil
		},
	})

	driver := &scriptDriver{
		t:       t,
		selects: []int{2, 2}, // first save fails, second succeeds
	}

	if _, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("save attempts = %d, want 2", attempts)
	}

	found := false
	for _, msg := range driver.infos {
		if strings.Contains(msg, "network error") {
			found = true
		}
	}
	if !found {
		t.Fatalf("save failure message not surfaced: %v", driver.infos)
	}
}

func TestRunListEditing(t *testing.T) {
	sess := newEditorSession(t, session.Collaborators{
		Save: func(context.Context, document.Record) (*session.SaveResult, error) {
			return &session.SaveResult{}, nil
		},
	})

	driver := &scriptDriver{
		t: t,
		selects: []int{
			1,    // Agenda section
			0,    // topics field
			2,    // "+ Add entry"
			2, 0, // edit the new entry (#3)
			1, 1, // move entry #2 up
			3,    // Done
			1,    // Back out of the section
			2,    // Save
		},
		inputs: []string{"gamma"},
	}

	if _, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := sess.Value("topics")
	want := []any{"beta", "alpha", "gamma"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
}

func TestRunSaveWithoutSaverReportsError(t *testing.T) {
	sess := newEditorSession(t, session.Collaborators{})

	driver := &scriptDriver{
		t:       t,
		selects: []int{2, 3}, // save fails before any collaborator runs, then cancel
	}

	_, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess)
	if !errors.Is(err, tui.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	found := false
	for _, msg := range driver.infos {
		if msg == "Save failed: " {
			t.Fatalf("failure surfaced with an empty message")
		}
		if strings.Contains(msg, "save collaborator not configured") {
			found = true
		}
	}
	if !found {
		t.Fatalf("save failure reason not surfaced: %v", driver.infos)
	}
}

func TestMenuLabelsStayValidUTF8(t *testing.T) {
	data := editorData()
	data["title"] = strings.Repeat("é", 60)
	sess, err := session.New(editorPreview(), data, session.Collaborators{})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	driver := &scriptDriver{
		t:       t,
		selects: []int{0, 2, 3}, // Overview, Back, Cancel
	}

	if _, err := tui.New(tui.WithPromptDriver(driver)).Run(context.Background(), sess); !errors.Is(err, tui.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	for _, menu := range driver.selectLabels {
		for _, label := range menu {
			if !utf8.ValidString(label) {
				t.Fatalf("menu label holds a split rune: %q", label)
			}
		}
	}
}

func TestRunSaveAndContinue(t *testing.T) {
	var forwarded *session.SaveResult
	sess := newEditorSession(t, session.Collaborators{
		Save: func(context.Context, document.Record) (*session.SaveResult, error) {
			return &session.SaveResult{Ref: "visit-7"}, nil
		},
	})

	driver := &scriptDriver{
		t:       t,
		selects: []int{3}, // Save and continue appears after plain Save.
	}

	renderer := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithFollowOn(func(result *session.SaveResult) { forwarded = result }),
	)
	if _, err := renderer.Run(context.Background(), sess); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if forwarded == nil || forwarded.Ref != "visit-7" {
		t.Fatalf("follow-on result = %#v", forwarded)
	}
}
