package session

import (
	"fmt"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
)

// The list mutation algebra: the four operations every list-valued field
// needs, identical for scalar lists and structured-record lists. Element
// identity (the generated id on structured records) survives update and
// reorder; only add mints a new id and only remove retires one.

// AddItem appends one element to a list-valued field and returns its index.
// Scalar lists gain an empty string; structured lists gain a record with a
// fresh identifier and every sub-field set to its empty value. Appending at
// the end keeps existing positions stable.
func (s *Session) AddItem(fieldID string) (int, error) {
	field, err := s.listField(fieldID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return 0, err
	}

	items := toAnyList(s.draft[fieldID])
	var element any
	if field.Behavior() == schema.FieldTypeStructuredList {
		element = map[string]any(document.NewItem(field.ItemSchema, s.idgen))
	} else {
		element = ""
	}
	items = append(items, element)
	s.draft[fieldID] = items
	return len(items) - 1, nil
}

// RemoveItem deletes the element at index; later elements shift down by one.
// An out-of-bounds index is a defensive no-op, never an error.
func (s *Session) RemoveItem(fieldID string, index int) error {
	if _, err := s.listField(fieldID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}

	items := toAnyList(s.draft[fieldID])
	if index < 0 || index >= len(items) {
		return nil
	}
	s.draft[fieldID] = append(items[:index], items[index+1:]...)
	return nil
}

// UpdateItem replaces the element at index wholesale. For structured records
// the caller merges changed sub-fields into a copy of the existing record
// first; the algebra does not know about sub-fields. The element's generated
// identifier is preserved even when the replacement omits it.
func (s *Session) UpdateItem(fieldID string, index int, value any) error {
	field, err := s.listField(fieldID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}

	items := toAnyList(s.draft[fieldID])
	if index < 0 || index >= len(items) {
		return fmt.Errorf("session: field %q has no element at index %d", fieldID, index)
	}

	replacement := document.CloneValue(value)
	if field.Behavior() == schema.FieldTypeStructuredList {
		if record, ok := replacement.(map[string]any); ok {
			if id, ok := record[document.ItemIDKey].(string); !ok || id == "" {
				if prior, ok := items[index].(map[string]any); ok {
					record[document.ItemIDKey] = prior[document.ItemIDKey]
				}
			}
		}
	}
	items[index] = replacement
	s.draft[fieldID] = items
	return nil
}

// ReorderItem removes the element at fromIndex and reinserts it at toIndex.
// Both indices are checked against the pre-removal length; any out-of-range
// index leaves the list unchanged. This matches the move-button boundary
// policy and holds even when called out of band.
func (s *Session) ReorderItem(fieldID string, fromIndex, toIndex int) error {
	if _, err := s.listField(fieldID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardEdit(); err != nil {
		return err
	}

	items := toAnyList(s.draft[fieldID])
	length := len(items)
	if fromIndex < 0 || fromIndex >= length || toIndex < 0 || toIndex >= length {
		return nil
	}
	if fromIndex == toIndex {
		return nil
	}

	element := items[fromIndex]
	items = append(items[:fromIndex], items[fromIndex+1:]...)
	items = append(items[:toIndex], append([]any{element}, items[toIndex:]...)...)
	s.draft[fieldID] = items
	return nil
}

// Items returns a copy of a structured-list field's current elements.
func (s *Session) Items(fieldID string) []document.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.draft[fieldID]
	if !ok {
		return nil
	}
	return document.Items(document.CloneValue(value))
}

// listField admits only list and structured-list fields. Multi-dropdown
// values go through SelectOption/DeselectOption exclusively; letting the
// positional operations touch them could forge duplicate selections.
func (s *Session) listField(fieldID string) (schema.Field, error) {
	field, err := s.field(fieldID)
	if err != nil {
		return schema.Field{}, err
	}
	kind := field.Behavior()
	if !kind.IsListValued() {
		return schema.Field{}, fmt.Errorf("session: field %q (%s) is not list-valued", fieldID, kind)
	}
	return field, nil
}
