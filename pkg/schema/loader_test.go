package schema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-docpreview/pkg/schema"
)

const yamlSchema = `
previews:
  meeting-brief:
    title: Meeting Brief
    icon: '<svg viewBox="0 0 24 24"><path d="M0 0h24"/></svg>'
    accentTheme: ocean
    sections:
      - id: overview
        title: Overview
        fields:
          - id: title
            label: Title
            type: text
            required: true
          - id: priority
            type: dropdown
            options:
              - value: low
                label: Low
              - value: high
                label: High
      - id: details
        title: Details
        collapsible: true
        defaultCollapsed: true
        fields:
          - id: attendees
            type: list
`

const jsonSchema = `{
  "previews": {
    "incident-report": {
      "title": "Incident Report",
      "sections": [
        {
          "id": "summary",
          "title": "Summary",
          "fields": [
            {"id": "headline", "type": "text"},
            {"id": "severity", "type": "slider", "min": 1, "max": 5}
          ]
        }
      ]
    }
  }
}`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"briefs.yaml":   {Data: []byte(yamlSchema)},
		"incident.json": {Data: []byte(jsonSchema)},
		"notes.txt":     {Data: []byte("ignored")},
	}

	store, err := schema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if store.Empty() {
		t.Fatalf("expected previews to be loaded")
	}
	if got := len(store.IDs()); got != 2 {
		t.Fatalf("expected 2 previews, got %d: %v", got, store.IDs())
	}

	brief, ok := store.Preview("meeting-brief")
	if !ok {
		t.Fatalf("meeting-brief not found")
	}
	if brief.Title != "Meeting Brief" {
		t.Fatalf("title mismatch: %q", brief.Title)
	}
	if brief.AccentTheme != "ocean" {
		t.Fatalf("accent theme mismatch: %q", brief.AccentTheme)
	}
	if !strings.Contains(brief.Icon, "<svg") {
		t.Fatalf("icon stripped entirely: %q", brief.Icon)
	}
	field, ok := brief.Field("priority")
	if !ok {
		t.Fatalf("priority field missing")
	}
	if len(field.Options) != 2 || field.Options[1].Label != "High" {
		t.Fatalf("options not parsed: %#v", field.Options)
	}
	if !brief.Sections[1].DefaultCollapsed {
		t.Fatalf("defaultCollapsed not parsed")
	}

	incident, ok := store.Preview("incident-report")
	if !ok {
		t.Fatalf("incident-report not found")
	}
	severity, _ := incident.Field("severity")
	if severity.Min == nil || *severity.Min != 1 || severity.Max == nil || *severity.Max != 5 {
		t.Fatalf("slider bounds not parsed: %#v", severity)
	}
}

func TestLoadFSRejectsDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(jsonSchema)},
		"b.json": {Data: []byte(jsonSchema)},
	}
	if _, err := schema.LoadFS(fsys); err == nil || !strings.Contains(err.Error(), "duplicate preview") {
		t.Fatalf("expected duplicate preview error, got %v", err)
	}
}

func TestLoadFSRejectsInvalidSchema(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte("previews:\n  broken:\n    title: Broken\n")},
	}
	if _, err := schema.LoadFS(fsys); err == nil {
		t.Fatalf("expected validation failure for schema without sections")
	}
}

func TestLoadFSValidatesStrictly(t *testing.T) {
	// Shapes that degrade at render time still fail fast at load time.
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte(`
previews:
  incident:
    title: Incident
    sections:
      - id: timeline
        title: Timeline
        fields:
          - id: steps
            type: structured-list
`)},
	}
	if _, err := schema.LoadFS(fsys); err == nil || !strings.Contains(err.Error(), "missing its item schema") {
		t.Fatalf("expected strict load failure, got %v", err)
	}
}

func TestSanitizeIconStripsScripts(t *testing.T) {
	cleaned := schema.SanitizeIcon(`<svg onload="alert(1)"><script>alert(1)</script><path d="M0 0"/></svg>`)
	if strings.Contains(cleaned, "script") || strings.Contains(cleaned, "onload") {
		t.Fatalf("unsafe markup survived sanitizing: %q", cleaned)
	}
	if !strings.Contains(cleaned, "<path") {
		t.Fatalf("safe markup removed: %q", cleaned)
	}
}
