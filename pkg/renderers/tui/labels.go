package tui

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

func fieldMenuLabel(sess *session.Session, field schema.Field) string {
	current, _ := sess.Value(field.ID)
	summary := summarizeValue(field, current)

	var markers []string
	if suggestion, ok := sess.Suggestion(field.ID); ok {
		switch suggestion.State {
		case session.SuggestionLoading:
			markers = append(markers, "enhancing...")
		case session.SuggestionReady:
			markers = append(markers, "suggestion ready")
		}
	}
	if field.Required && summary == "" {
		markers = append(markers, "required")
	}

	label := field.DisplayLabel()
	if summary != "" {
		label = fmt.Sprintf("%s: %s", label, truncate(summary, 48))
	}
	if len(markers) > 0 {
		label = fmt.Sprintf("%s [%s]", label, strings.Join(markers, ", "))
	}
	return label
}

func summarizeValue(field schema.Field, value any) string {
	switch field.Behavior() {
	case schema.FieldTypeToggle:
		if document.Bool(value) {
			return "yes"
		}
		return "no"
	case schema.FieldTypeDropdown:
		return field.OptionLabel(document.String(value))
	case schema.FieldTypeMultiDropdown:
		selected := document.StringSlice(value)
		labels := make([]string, 0, len(selected))
		for _, entry := range selected {
			labels = append(labels, field.OptionLabel(entry))
		}
		return strings.Join(labels, ", ")
	case schema.FieldTypeList:
		entries := document.StringSlice(value)
		return fmt.Sprintf("%d entries", len(entries))
	case schema.FieldTypeStructuredList:
		return fmt.Sprintf("%d entries", len(document.Items(value)))
	case schema.FieldTypeSlider, schema.FieldTypeNumber:
		if n, ok := document.Number(value); ok {
			return document.String(n)
		}
		return ""
	default:
		return strings.ReplaceAll(document.String(value), "\n", " ")
	}
}

func itemSummary(field schema.Field, item document.Item) string {
	for _, sub := range field.ItemSchema {
		if text := strings.TrimSpace(document.String(item[sub.ID])); text != "" {
			return truncate(text, 60)
		}
	}
	return "(empty)"
}

// truncate shortens a label by rune count so a multi-byte character is
// never split mid-sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
