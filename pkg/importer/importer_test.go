package importer_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-docpreview/pkg/importer"
	"github.com/goliatone/go-docpreview/pkg/schema"
)

const visitSpec = `
openapi: 3.0.3
info:
  title: Visit API
  version: 1.0.0
paths: {}
components:
  schemas:
    VisitSummary:
      type: object
      title: Visit Summary
      x-preview-title: Patient Visit
      x-preview-icon: '<svg viewBox="0 0 16 16"><circle r="6"/></svg>'
      x-preview-theme: clinical
      x-preview-show-data-sources: true
      required: [title]
      properties:
        title:
          type: string
          x-preview-label: Visit title
          x-preview-order: 1
          x-preview-placeholder: Short description
        summary:
          type: string
          x-preview-order: 2
          x-preview-rows: 6
          x-preview-enhanceable: true
        confirmed:
          type: boolean
          x-preview-order: 3
        rating:
          type: integer
          minimum: 0
          maximum: 10
          x-preview-order: 4
        duration:
          type: number
          x-preview-order: 5
        status:
          type: string
          enum: [open, closed]
          x-preview-section: Workflow
        due:
          type: string
          format: date
          x-preview-section: Workflow
        channels:
          type: array
          x-preview-section: Workflow
          items:
            type: string
            enum: [email, phone]
        topics:
          type: array
          x-preview-section: Workflow
          items:
            type: string
        actions:
          type: array
          x-preview-section: Workflow
          items:
            type: object
            required: [task]
            properties:
              owner:
                type: string
              task:
                type: string
`

func importVisit(t *testing.T) *schema.Preview {
	t.Helper()
	preview, err := importer.FromData(context.Background(), []byte(visitSpec), "VisitSummary")
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}
	return preview
}

func field(t *testing.T, preview *schema.Preview, id string) schema.Field {
	t.Helper()
	for _, section := range preview.Sections {
		for _, f := range section.Fields {
			if f.ID == id {
				return f
			}
		}
	}
	t.Fatalf("field %q not found", id)
	return schema.Field{}
}

func TestImportPreviewMetadata(t *testing.T) {
	preview := importVisit(t)

	if preview.Title != "Patient Visit" {
		t.Fatalf("title = %q", preview.Title)
	}
	if preview.AccentTheme != "clinical" {
		t.Fatalf("accent theme = %q", preview.AccentTheme)
	}
	if !preview.ShowDataSources {
		t.Fatal("show data sources flag lost")
	}
	if preview.Icon == "" {
		t.Fatal("icon lost")
	}
}

func TestImportSectionGrouping(t *testing.T) {
	preview := importVisit(t)

	if len(preview.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(preview.Sections))
	}
	if preview.Sections[0].Title != "Details" || preview.Sections[0].ID != "details" {
		t.Fatalf("default section = %q (%q)", preview.Sections[0].Title, preview.Sections[0].ID)
	}
	if preview.Sections[1].Title != "Workflow" || preview.Sections[1].ID != "workflow" {
		t.Fatalf("declared section = %q (%q)", preview.Sections[1].Title, preview.Sections[1].ID)
	}

	// Ordered properties come first, alphabetical within the rest.
	var ids []string
	for _, f := range preview.Sections[0].Fields {
		ids = append(ids, f.ID)
	}
	want := []string{"title", "summary", "confirmed", "rating", "duration"}
	if len(ids) != len(want) {
		t.Fatalf("default section fields = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("field order = %v, want %v", ids, want)
		}
	}
}

func TestImportFieldTypes(t *testing.T) {
	preview := importVisit(t)

	title := field(t, preview, "title")
	if title.Type != schema.FieldTypeText || !title.Required {
		t.Fatalf("title = %+v", title)
	}
	if title.Label != "Visit title" || title.Placeholder != "Short description" {
		t.Fatalf("title presentation = %+v", title)
	}

	summary := field(t, preview, "summary")
	if summary.Type != schema.FieldTypeTextarea || summary.Rows != 6 || !summary.Enhanceable {
		t.Fatalf("summary = %+v", summary)
	}

	if got := field(t, preview, "confirmed").Type; got != schema.FieldTypeToggle {
		t.Fatalf("confirmed type = %q", got)
	}

	rating := field(t, preview, "rating")
	if rating.Type != schema.FieldTypeSlider {
		t.Fatalf("rating type = %q", rating.Type)
	}
	if rating.Min == nil || *rating.Min != 0 || rating.Max == nil || *rating.Max != 10 {
		t.Fatalf("rating bounds = %v..%v", rating.Min, rating.Max)
	}

	if got := field(t, preview, "duration").Type; got != schema.FieldTypeNumber {
		t.Fatalf("unbounded number type = %q", got)
	}

	status := field(t, preview, "status")
	if status.Type != schema.FieldTypeDropdown || len(status.Options) != 2 {
		t.Fatalf("status = %+v", status)
	}
	if status.Options[0].Value != "open" || status.Options[1].Value != "closed" {
		t.Fatalf("status options = %+v", status.Options)
	}

	if got := field(t, preview, "due").Type; got != schema.FieldTypeDate {
		t.Fatalf("date type = %q", got)
	}

	channels := field(t, preview, "channels")
	if channels.Type != schema.FieldTypeMultiDropdown || len(channels.Options) != 2 {
		t.Fatalf("channels = %+v", channels)
	}

	if got := field(t, preview, "topics").Type; got != schema.FieldTypeList {
		t.Fatalf("plain array type = %q", got)
	}

	actions := field(t, preview, "actions")
	if actions.Type != schema.FieldTypeStructuredList || len(actions.ItemSchema) != 2 {
		t.Fatalf("actions = %+v", actions)
	}
	for _, sub := range actions.ItemSchema {
		if sub.ID == "task" && !sub.Required {
			t.Fatal("item-level required list ignored")
		}
	}
}

func TestImportMissingComponent(t *testing.T) {
	if _, err := importer.FromData(context.Background(), []byte(visitSpec), "Nope"); err == nil {
		t.Fatal("expected error for unknown component")
	}
}

func TestImportEmptyPayload(t *testing.T) {
	if _, err := importer.FromData(context.Background(), nil, "VisitSummary"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestImportStructuredListRequiresItemProperties(t *testing.T) {
	const spec = `
openapi: 3.0.3
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Bad:
      type: object
      properties:
        entries:
          type: array
          items:
            type: object
`
	if _, err := importer.FromData(context.Background(), []byte(spec), "Bad"); err == nil {
		t.Fatal("expected error for structured list without item properties")
	}
}
