package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/render"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

// Renderer drives an interactive editing pass over a session: it walks
// sections and fields, applies operator edits through the session's mutation
// operations, runs the enhance workflow for enhanceable fields, and finishes
// through the save/cancel exit protocol. Render returns the approved
// document; a confirmed cancel returns ErrCancelled.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	followOn     func(*session.SaveResult)
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render satisfies render.Renderer by running the editing loop.
func (r *Renderer) Render(ctx context.Context, sess *session.Session, _ render.RenderOptions) ([]byte, error) {
	return r.Run(ctx, sess)
}

// Run is the interactive entry point. It returns the serialized approved
// document after a successful save, or ErrCancelled after a confirmed
// discard.
func (r *Renderer) Run(ctx context.Context, sess *session.Session) ([]byte, error) {
	if sess == nil {
		return nil, fmt.Errorf("tui: session is required")
	}

	preview := sess.Preview()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if msg := sess.Err(); msg != "" {
			_ = r.driver.Info(ctx, "Error: "+msg)
			sess.ClearError()
		}

		choice, err := r.mainMenu(ctx, sess, preview)
		if err != nil {
			return nil, err
		}

		switch {
		case choice.section != nil:
			if sess.Collapsed(choice.section.ID) {
				sess.ToggleSection(choice.section.ID)
			}
			if err := r.editSection(ctx, sess, *choice.section); err != nil {
				return nil, err
			}
		case choice.action == actionSave:
			if done, out, err := r.save(ctx, sess, false); done {
				return out, err
			}
		case choice.action == actionSaveContinue:
			if done, out, err := r.save(ctx, sess, true); done {
				return out, err
			}
		case choice.action == actionCancel:
			cancelled, err := r.cancel(ctx, sess)
			if err != nil {
				return nil, err
			}
			if cancelled {
				return nil, ErrCancelled
			}
		}
	}
}

type mainAction int

const (
	actionNone mainAction = iota
	actionSave
	actionSaveContinue
	actionCancel
)

type menuChoice struct {
	section *schema.Section
	action  mainAction
}

func (r *Renderer) mainMenu(ctx context.Context, sess *session.Session, preview schema.Preview) (menuChoice, error) {
	var labels []string
	var choices []menuChoice

	for i := range preview.Sections {
		section := preview.Sections[i]
		label := section.Title
		if sess.Collapsed(section.ID) {
			label += " (collapsed)"
		}
		labels = append(labels, label)
		choices = append(choices, menuChoice{section: &preview.Sections[i]})
	}

	saveLabel := "Save document"
	if sess.IsModified() {
		saveLabel = "Save document *"
	}
	labels = append(labels, saveLabel)
	choices = append(choices, menuChoice{action: actionSave})

	if r.followOn != nil {
		labels = append(labels, "Save and continue")
		choices = append(choices, menuChoice{action: actionSaveContinue})
	}

	labels = append(labels, "Cancel")
	choices = append(choices, menuChoice{action: actionCancel})

	message := preview.Title
	if sources := sess.DataSources(); len(sources) > 0 && preview.ShowDataSources {
		names := make([]string, 0, len(sources))
		for _, src := range sources {
			names = append(names, src.Name)
		}
		message = fmt.Sprintf("%s (sources: %s)", preview.Title, strings.Join(names, ", "))
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: message,
		Options: labels,
	})
	if err != nil {
		return menuChoice{}, err
	}
	if idx < 0 || idx >= len(choices) {
		return menuChoice{action: actionNone}, nil
	}
	return choices[idx], nil
}

func (r *Renderer) editSection(ctx context.Context, sess *session.Session, section schema.Section) error {
	for {
		var labels []string
		for _, field := range section.Fields {
			labels = append(labels, fieldMenuLabel(sess, field))
		}
		labels = append(labels, "Back")

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: section.Title,
			Options: labels,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(section.Fields) {
			return nil
		}

		if err := r.editField(ctx, sess, section.Fields[idx]); err != nil {
			return err
		}
		if msg := sess.Err(); msg != "" {
			_ = r.driver.Info(ctx, "Error: "+msg)
			sess.ClearError()
		}
	}
}

func (r *Renderer) editField(ctx context.Context, sess *session.Session, field schema.Field) error {
	if field.Enhanceable {
		return r.editEnhanceableField(ctx, sess, field)
	}
	return r.promptField(ctx, sess, field)
}

func (r *Renderer) editEnhanceableField(ctx context.Context, sess *session.Session, field schema.Field) error {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: field.DisplayLabel(),
		Options: []string{"Edit value", "Request improved value", "Back"},
	})
	if err != nil {
		return err
	}
	switch idx {
	case 0:
		return r.promptField(ctx, sess, field)
	case 1:
		return r.enhanceField(ctx, sess, field)
	default:
		return nil
	}
}

func (r *Renderer) enhanceField(ctx context.Context, sess *session.Session, field schema.Field) error {
	_ = r.driver.Info(ctx, fmt.Sprintf("Requesting an improved value for %s...", field.DisplayLabel()))
	if err := sess.RequestSuggestion(ctx, field.ID); err != nil {
		// Collaborator failures already landed on the shared error channel;
		// the loop surfaces them. Abort only on prompt-level errors.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}

	suggestion, ok := sess.Suggestion(field.ID)
	if !ok || suggestion.State != session.SuggestionReady {
		return nil
	}

	accept, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Apply suggested value?\n  %s", summarizeValue(field, suggestion.Value)),
		Default: true,
	})
	if err != nil {
		return err
	}
	if accept {
		return sess.ApplySuggestion(field.ID)
	}
	return sess.DismissSuggestion(field.ID)
}

func (r *Renderer) promptField(ctx context.Context, sess *session.Session, field schema.Field) error {
	current, _ := sess.Value(field.ID)

	switch field.Behavior() {
	case schema.FieldTypeTextarea:
		value, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.DisplayLabel(),
			Default: document.String(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return sess.UpdateField(field.ID, value)

	case schema.FieldTypeToggle:
		value, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: field.DisplayLabel(),
			Default: document.Bool(current),
		})
		if err != nil {
			return err
		}
		return sess.UpdateField(field.ID, value)

	case schema.FieldTypeSlider, schema.FieldTypeNumber:
		return r.promptNumber(ctx, sess, field, current)

	case schema.FieldTypeDropdown:
		return r.promptDropdown(ctx, sess, field, current)

	case schema.FieldTypeMultiDropdown:
		return r.promptMultiDropdown(ctx, sess, field, current)

	case schema.FieldTypeList:
		return r.editList(ctx, sess, field)

	case schema.FieldTypeStructuredList:
		return r.editStructuredList(ctx, sess, field)

	default:
		// text, date, datetime, and anything the schema invented since.
		value, err := r.driver.Input(ctx, InputConfig{
			Message: field.DisplayLabel(),
			Default: document.String(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return sess.UpdateField(field.ID, value)
	}
}

func (r *Renderer) promptNumber(ctx context.Context, sess *session.Session, field schema.Field, current any) error {
	defaultStr := ""
	if n, ok := document.Number(current); ok {
		defaultStr = document.String(n)
	}
	help := field.Placeholder
	if field.Min != nil || field.Max != nil {
		help = strings.TrimSpace(fmt.Sprintf("%s [%s..%s]", help, boundLabel(field.Min), boundLabel(field.Max)))
	}
	value, err := r.driver.Input(ctx, InputConfig{
		Message: field.DisplayLabel(),
		Default: defaultStr,
		Help:    help,
	})
	if err != nil {
		return err
	}
	// Non-numeric input fails closed to an unset value inside the session.
	return sess.UpdateField(field.ID, value)
}

func boundLabel(bound *float64) string {
	if bound == nil {
		return ""
	}
	return document.String(*bound)
}

const unsetOptionLabel = "(unset)"

func (r *Renderer) promptDropdown(ctx context.Context, sess *session.Session, field schema.Field, current any) error {
	// An explicit unset entry avoids silently picking the first option when
	// the field has no value yet.
	labels := make([]string, 0, len(field.Options)+1)
	labels = append(labels, unsetOptionLabel)
	defaultIdx := 0
	currentValue := document.String(current)
	for i, opt := range field.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		labels = append(labels, label)
		if currentValue != "" && opt.Value == currentValue {
			defaultIdx = i + 1
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      field.DisplayLabel(),
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	if idx <= 0 {
		return sess.UpdateField(field.ID, "")
	}
	if idx-1 >= len(field.Options) {
		return nil
	}
	return sess.UpdateField(field.ID, field.Options[idx-1].Value)
}

func (r *Renderer) promptMultiDropdown(ctx context.Context, sess *session.Session, field schema.Field, current any) error {
	selected := document.StringSlice(current)
	labels := make([]string, len(field.Options))
	values := make([]string, len(field.Options))
	for i, opt := range field.Options {
		if opt.Label != "" {
			labels[i] = opt.Label
		} else {
			labels[i] = opt.Value
		}
		values[i] = opt.Value
	}

	var defaults []int
	for i, value := range values {
		for _, sel := range selected {
			if sel == value {
				defaults = append(defaults, i)
				break
			}
		}
	}

	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  field.DisplayLabel(),
		Options:  labels,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}

	chosen := make(map[string]struct{}, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(values) {
			chosen[values[idx]] = struct{}{}
		}
	}

	// Reconcile through select/deselect so earlier selections keep their
	// insertion order and dropped ones vacate their positions.
	for _, sel := range selected {
		if _, keep := chosen[sel]; !keep {
			if err := sess.DeselectOption(field.ID, sel); err != nil {
				return err
			}
		}
	}
	for _, value := range values {
		if _, want := chosen[value]; want {
			if err := sess.SelectOption(field.ID, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) save(ctx context.Context, sess *session.Session, andContinue bool) (bool, []byte, error) {
	result, err := sess.Save(ctx)
	if err != nil {
		// Guard failures (no saver configured, save already in flight) never
		// reach the collaborator, so the shared channel stays empty.
		msg := sess.Err()
		if msg == "" {
			msg = err.Error()
		}
		_ = r.driver.Info(ctx, "Save failed: "+msg)
		sess.ClearError()
		return false, nil, nil
	}
	if andContinue && r.followOn != nil {
		r.followOn(result)
	}
	out, err := r.serialize(sess.Draft())
	return true, out, err
}

func (r *Renderer) cancel(ctx context.Context, sess *session.Session) (bool, error) {
	var promptErr error
	cancelled := sess.Cancel(func() bool {
		confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Discard unsaved changes?",
			Default: false,
		})
		if err != nil {
			promptErr = err
			return false
		}
		return confirmed
	})
	if promptErr != nil {
		return false, promptErr
	}
	return cancelled, nil
}

func (r *Renderer) serialize(record document.Record) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		var b strings.Builder
		writePretty(&b, "", map[string]any(record))
		return []byte(b.String()), nil
	}
	return json.Marshal(record)
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, val)
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
