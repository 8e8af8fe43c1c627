package session

import (
	"fmt"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
)

// UpdateField replaces a field's draft value wholesale. Values are normalized
// to the field's declared shape: numeric fields fail closed to nil on
// non-numeric input, toggle fields coerce to booleans, list-shaped fields
// accept string slices, and multi-dropdown values are de-duplicated so the
// no-duplicates invariant holds even for out-of-band callers. The snapshot is
// never touched.
func (s *Session) UpdateField(fieldID string, value any) error {
	field, err := s.field(fieldID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}
	s.setField(field, value)
	return nil
}

// setField applies a normalized value to the draft. Callers hold the lock.
func (s *Session) setField(field schema.Field, value any) {
	s.draft[field.ID] = normalizeValue(field, value)
}

func normalizeValue(field schema.Field, value any) any {
	switch field.Behavior() {
	case schema.FieldTypeSlider, schema.FieldTypeNumber:
		return normalizeNumber(value)
	case schema.FieldTypeToggle:
		return document.Bool(value)
	case schema.FieldTypeMultiDropdown:
		return dedupe(toAnyList(value))
	case schema.FieldTypeList, schema.FieldTypeStructuredList:
		return toAnyList(value)
	default:
		return document.String(value)
	}
}

func normalizeNumber(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return document.ParseNumber(v)
	default:
		if n, ok := document.Number(v); ok {
			return n
		}
		return nil
	}
}

func toAnyList(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		out, _ := document.CloneValue(v).([]any)
		return out
	case []string:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = entry
		}
		return out
	default:
		// A scalar handed to a list field becomes a single-element list
		// rather than corrupting the value shape.
		return []any{document.String(value)}
	}
}

func dedupe(entries []any) []any {
	seen := make(map[string]struct{}, len(entries))
	out := make([]any, 0, len(entries))
	for _, entry := range entries {
		key := document.String(entry)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// SelectOption appends a value to a multi-dropdown field, preserving
// insertion order. Selecting an already-selected value is a no-op.
func (s *Session) SelectOption(fieldID, value string) error {
	field, err := s.field(fieldID)
	if err != nil {
		return err
	}
	if field.Behavior() != schema.FieldTypeMultiDropdown {
		return fmt.Errorf("session: field %q is not a multi-dropdown", fieldID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}

	selected := toAnyList(s.draft[fieldID])
	for _, entry := range selected {
		if document.String(entry) == value {
			return nil
		}
	}
	s.draft[fieldID] = append(selected, value)
	return nil
}

// DeselectOption removes a value from a multi-dropdown field at its
// position. Deselecting an absent value is a no-op.
func (s *Session) DeselectOption(fieldID, value string) error {
	field, err := s.field(fieldID)
	if err != nil {
		return err
	}
	if field.Behavior() != schema.FieldTypeMultiDropdown {
		return fmt.Errorf("session: field %q is not a multi-dropdown", fieldID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}

	selected := toAnyList(s.draft[fieldID])
	for idx, entry := range selected {
		if document.String(entry) == value {
			s.draft[fieldID] = append(selected[:idx], selected[idx+1:]...)
			return nil
		}
	}
	return nil
}
