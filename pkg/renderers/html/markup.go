package html

import (
	"html"
	"strings"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

func buildSectionsMarkup(sess *session.Session, showOriginal bool) string {
	preview := sess.Preview()

	var builder strings.Builder
	for _, section := range preview.Sections {
		builder.WriteString(`    <section id="section-`)
		builder.WriteString(html.EscapeString(section.ID))
		builder.WriteString(`"`)
		if sess.Collapsed(section.ID) {
			builder.WriteString(` class="collapsed"`)
		}
		builder.WriteString(">\n      <h2>")
		if icon := schema.SanitizeIcon(section.Icon); icon != "" {
			builder.WriteString(icon)
		}
		builder.WriteString(html.EscapeString(section.Title))
		builder.WriteString("</h2>\n")
		builder.WriteString(`      <div class="section-body">` + "\n")
		for _, field := range section.Fields {
			builder.WriteString(buildFieldMarkup(sess, field, showOriginal))
		}
		builder.WriteString("      </div>\n    </section>\n")
	}
	return builder.String()
}

func buildFieldMarkup(sess *session.Session, field schema.Field, showOriginal bool) string {
	current, _ := sess.Value(field.ID)
	original, _ := sess.OriginalValue(field.ID)
	changed := !document.Equal(
		document.Record{field.ID: current},
		document.Record{field.ID: original},
	)

	var builder strings.Builder
	builder.WriteString(`        <div class="field`)
	if changed {
		builder.WriteString(` changed`)
	}
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`" data-type="`)
	builder.WriteString(html.EscapeString(string(field.Behavior())))
	builder.WriteString("\">\n")

	builder.WriteString(`          <span class="field-label">`)
	builder.WriteString(html.EscapeString(field.DisplayLabel()))
	builder.WriteString("</span>\n")

	switch field.Behavior() {
	case schema.FieldTypeList:
		writeItemList(&builder, document.StringSlice(current))
	case schema.FieldTypeMultiDropdown:
		selected := document.StringSlice(current)
		labels := make([]string, 0, len(selected))
		for _, entry := range selected {
			labels = append(labels, field.OptionLabel(entry))
		}
		writeItemList(&builder, labels)
	case schema.FieldTypeStructuredList:
		builder.WriteString(`          <ul class="field-items">` + "\n")
		for _, item := range document.Items(current) {
			builder.WriteString("            <li>")
			parts := make([]string, 0, len(field.ItemSchema))
			for _, sub := range field.ItemSchema {
				if text := document.String(item[sub.ID]); text != "" {
					parts = append(parts, html.EscapeString(sub.DisplayLabel())+": "+html.EscapeString(text))
				}
			}
			builder.WriteString(strings.Join(parts, " · "))
			builder.WriteString("</li>\n")
		}
		builder.WriteString("          </ul>\n")
	default:
		builder.WriteString(`          <div class="field-value">`)
		builder.WriteString(html.EscapeString(scalarText(field, current)))
		builder.WriteString("</div>\n")
		if showOriginal && changed {
			builder.WriteString(`          <div class="field-original">was: `)
			builder.WriteString(html.EscapeString(scalarText(field, original)))
			builder.WriteString("</div>\n")
		}
	}

	if suggestion, ok := sess.Suggestion(field.ID); ok {
		switch suggestion.State {
		case session.SuggestionLoading:
			builder.WriteString(`          <div class="field-suggestion">requesting improved value…</div>` + "\n")
		case session.SuggestionReady:
			builder.WriteString(`          <div class="field-suggestion">suggestion: `)
			builder.WriteString(html.EscapeString(document.String(suggestion.Value)))
			builder.WriteString("</div>\n")
		}
	}

	builder.WriteString("        </div>\n")
	return builder.String()
}

func writeItemList(builder *strings.Builder, entries []string) {
	builder.WriteString(`          <ul class="field-items">` + "\n")
	for _, entry := range entries {
		builder.WriteString("            <li>")
		builder.WriteString(html.EscapeString(entry))
		builder.WriteString("</li>\n")
	}
	builder.WriteString("          </ul>\n")
}

func scalarText(field schema.Field, value any) string {
	switch field.Behavior() {
	case schema.FieldTypeToggle:
		if document.Bool(value) {
			return "yes"
		}
		return "no"
	case schema.FieldTypeDropdown:
		return field.OptionLabel(document.String(value))
	default:
		return document.String(value)
	}
}
