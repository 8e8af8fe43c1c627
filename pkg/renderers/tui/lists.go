package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

// editList runs the submenu for an ordered list of scalars: pick an entry to
// edit, or add/remove/move entries. Moves map to ReorderItem(i, i±1) so the
// boundary guard in the session applies.
func (r *Renderer) editList(ctx context.Context, sess *session.Session, field schema.Field) error {
	for {
		current, _ := sess.Value(field.ID)
		entries := document.StringSlice(current)

		labels := make([]string, 0, len(entries)+2)
		for i, entry := range entries {
			labels = append(labels, fmt.Sprintf("%d. %s", i+1, truncate(entry, 60)))
		}
		labels = append(labels, "+ Add entry", "Done")

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: field.DisplayLabel(),
			Options: labels,
		})
		if err != nil {
			return err
		}

		switch {
		case idx >= 0 && idx < len(entries):
			if err := r.editListEntry(ctx, sess, field, idx, entries[idx]); err != nil {
				return err
			}
		case idx == len(entries):
			if _, err := sess.AddItem(field.ID); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Renderer) editListEntry(ctx context.Context, sess *session.Session, field schema.Field, index int, current string) error {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: fmt.Sprintf("%s #%d", field.DisplayLabel(), index+1),
		Options: []string{"Edit", "Move up", "Move down", "Remove", "Back"},
	})
	if err != nil {
		return err
	}

	switch idx {
	case 0:
		value, err := r.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s #%d", field.DisplayLabel(), index+1),
			Default: current,
		})
		if err != nil {
			return err
		}
		return sess.UpdateItem(field.ID, index, value)
	case 1:
		return sess.ReorderItem(field.ID, index, index-1)
	case 2:
		return sess.ReorderItem(field.ID, index, index+1)
	case 3:
		return sess.RemoveItem(field.ID, index)
	default:
		return nil
	}
}

// editStructuredList runs the submenu for a list of records. Editing an
// element prompts each sub-field in schema order, merges the answers into a
// copy of the record, and replaces it wholesale through UpdateItem so the
// element keeps its identity.
func (r *Renderer) editStructuredList(ctx context.Context, sess *session.Session, field schema.Field) error {
	for {
		items := sess.Items(field.ID)

		labels := make([]string, 0, len(items)+2)
		for i, item := range items {
			labels = append(labels, fmt.Sprintf("%d. %s", i+1, itemSummary(field, item)))
		}
		labels = append(labels, "+ Add entry", "Done")

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: field.DisplayLabel(),
			Options: labels,
		})
		if err != nil {
			return err
		}

		switch {
		case idx >= 0 && idx < len(items):
			if err := r.editStructuredEntry(ctx, sess, field, idx, items[idx]); err != nil {
				return err
			}
		case idx == len(items):
			index, err := sess.AddItem(field.ID)
			if err != nil {
				return err
			}
			fresh := sess.Items(field.ID)
			if index < len(fresh) {
				if err := r.fillItem(ctx, sess, field, index, fresh[index]); err != nil {
					return err
				}
			}
		default:
			return nil
		}
	}
}

func (r *Renderer) editStructuredEntry(ctx context.Context, sess *session.Session, field schema.Field, index int, item document.Item) error {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: itemSummary(field, item),
		Options: []string{"Edit fields", "Move up", "Move down", "Remove", "Back"},
	})
	if err != nil {
		return err
	}

	switch idx {
	case 0:
		return r.fillItem(ctx, sess, field, index, item)
	case 1:
		return sess.ReorderItem(field.ID, index, index-1)
	case 2:
		return sess.ReorderItem(field.ID, index, index+1)
	case 3:
		return sess.RemoveItem(field.ID, index)
	default:
		return nil
	}
}

func (r *Renderer) fillItem(ctx context.Context, sess *session.Session, field schema.Field, index int, item document.Item) error {
	// Merge answers into a copy; the algebra replaces wholesale.
	updated := make(map[string]any, len(item))
	for key, value := range item {
		updated[key] = document.CloneValue(value)
	}

	for _, sub := range field.ItemSchema {
		current := document.String(updated[sub.ID])
		value, err := r.driver.Input(ctx, InputConfig{
			Message: sub.DisplayLabel(),
			Default: current,
			Help:    sub.Placeholder,
		})
		if err != nil {
			return err
		}
		switch sub.Behavior() {
		case schema.FieldTypeSlider, schema.FieldTypeNumber:
			updated[sub.ID] = document.ParseNumber(value)
		default:
			updated[sub.ID] = value
		}
	}
	return sess.UpdateItem(field.ID, index, updated)
}
