// Package text renders a session's current state as a styled terminal
// summary: a read-only view used by CLI flows that want to show the draft
// without entering the interactive editor.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/render"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

// Renderer writes a styled plain-text snapshot of the session.
type Renderer struct {
	width int
}

// Option configures the text renderer.
type Option func(*Renderer)

// WithWidth bounds the rendered output width. Zero means unbounded.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// New constructs the text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render produces the summary. Collapsed sections render as a single header
// line; modified fields carry a marker so an operator can review what
// changed before saving.
func (r *Renderer) Render(ctx context.Context, sess *session.Session, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("text: session is required")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	changedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	if theme := opts.Theme; theme != nil {
		if accent := theme.Tokens["accent"]; accent != "" {
			titleStyle = titleStyle.Foreground(lipgloss.Color(accent))
			sectionStyle = sectionStyle.Foreground(lipgloss.Color(accent))
		}
	}

	preview := sess.Preview()
	var b strings.Builder

	title := preview.Title
	if sess.IsModified() {
		title += " " + changedStyle.Render("(modified)")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if msg := sess.Err(); msg != "" {
		b.WriteString(errorStyle.Render("error: " + msg))
		b.WriteString("\n")
	}

	for _, section := range preview.Sections {
		b.WriteString("\n")
		header := section.Title
		if sess.Collapsed(section.ID) {
			b.WriteString(sectionStyle.Render(header + " …"))
			b.WriteString("\n")
			continue
		}
		b.WriteString(sectionStyle.Render(header))
		b.WriteString("\n")

		for _, field := range section.Fields {
			r.writeField(&b, sess, field, labelStyle, changedStyle, opts.ShowOriginal)
		}
	}

	if preview.ShowDataSources {
		if sources := sess.DataSources(); len(sources) > 0 {
			b.WriteString("\n")
			b.WriteString(sectionStyle.Render("Data sources"))
			b.WriteString("\n")
			for _, src := range sources {
				line := "  " + src.Name
				if src.Description != "" {
					line += ": " + src.Description
				}
				b.WriteString(line + "\n")
			}
		}
	}

	out := b.String()
	if r.width > 0 {
		out = lipgloss.NewStyle().Width(r.width).Render(out)
	}
	return []byte(out), nil
}

func (r *Renderer) writeField(b *strings.Builder, sess *session.Session, field schema.Field, labelStyle, changedStyle lipgloss.Style, showOriginal bool) {
	current, _ := sess.Value(field.ID)
	original, _ := sess.OriginalValue(field.ID)
	changed := !document.Equal(
		document.Record{field.ID: current},
		document.Record{field.ID: original},
	)

	label := labelStyle.Render(field.DisplayLabel() + ":")
	marker := ""
	if changed {
		marker = " " + changedStyle.Render("*")
	}
	if suggestion, ok := sess.Suggestion(field.ID); ok && suggestion.State == session.SuggestionReady {
		marker += " " + changedStyle.Render("[suggestion ready]")
	}

	switch field.Behavior() {
	case schema.FieldTypeList:
		fmt.Fprintf(b, "  %s%s\n", label, marker)
		for _, entry := range document.StringSlice(current) {
			fmt.Fprintf(b, "    - %s\n", entry)
		}
	case schema.FieldTypeStructuredList:
		fmt.Fprintf(b, "  %s%s\n", label, marker)
		for _, item := range document.Items(current) {
			parts := make([]string, 0, len(field.ItemSchema))
			for _, sub := range field.ItemSchema {
				if text := document.String(item[sub.ID]); text != "" {
					parts = append(parts, text)
				}
			}
			fmt.Fprintf(b, "    - %s\n", strings.Join(parts, " | "))
		}
	default:
		fmt.Fprintf(b, "  %s %s%s\n", label, scalarText(field, current), marker)
		if showOriginal && changed {
			fmt.Fprintf(b, "    %s %s\n", labelStyle.Render("was:"), scalarText(field, original))
		}
	}
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
	case schema.FieldTypeMultiDropdown:
		selected := document.StringSlice(value)
		labels := make([]string, 0, len(selected))
		for _, entry := range selected {
			labels = append(labels, field.OptionLabel(entry))
		}
		return strings.Join(labels, ", ")
	default:
		return strings.ReplaceAll(document.String(value), "\n", " ")
	}
}
