package document

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-docpreview/pkg/schema"
)

// Record is a document's data: a mapping from field id to an opaque value
// whose shape depends on the field's declared type. Scalar fields hold
// strings, numbers, or booleans; list fields hold []any of strings; structured
// lists hold []any of Item records.
type Record map[string]any

// Item is one element of a structured list. Beyond its schema-declared
// sub-fields it carries a generated identifier under ItemIDKey so renderers
// can key rows stably across reorders and updates.
type Item map[string]any

// ItemIDKey is the reserved key holding a structured-list element's generated
// identifier. It never collides with sub-field ids; NewItem overwrites it.
const ItemIDKey = "id"

// IDGenerator produces unique item identifiers. Injected in tests.
type IDGenerator func() string

// NewID is the default item identifier generator.
func NewID() string {
	return uuid.NewString()
}

// NewItem constructs a structured-list element with a fresh identifier and
// every sub-field initialized to its empty value.
func NewItem(itemSchema []schema.Field, gen IDGenerator) Item {
	if gen == nil {
		gen = NewID
	}
	item := make(Item, len(itemSchema)+1)
	item[ItemIDKey] = gen()
	for _, sub := range itemSchema {
		item[sub.ID] = ZeroValue(sub)
	}
	return item
}

// ID returns the element's generated identifier, if any.
func (i Item) ID() string {
	id, _ := i[ItemIDKey].(string)
	return id
}

// ZeroValue yields the empty value for a field's declared type: the empty
// string for scalars, false for toggles, nil for numbers, and empty slices
// for list-shaped fields. Unknown types fall back to the text shape.
func ZeroValue(field schema.Field) any {
	switch field.Behavior() {
	case schema.FieldTypeToggle:
		return false
	case schema.FieldTypeSlider, schema.FieldTypeNumber:
		return nil
	case schema.FieldTypeMultiDropdown, schema.FieldTypeList, schema.FieldTypeStructuredList:
		return []any{}
	default:
		return ""
	}
}

// Seed fills in missing field values so every schema field resolves to a
// value of the right shape. Existing values are left untouched; structured
// list elements gain identifiers when the caller-supplied data omits them.
func Seed(preview schema.Preview, data Record, gen IDGenerator) Record {
	if gen == nil {
		gen = NewID
	}
	seeded := Clone(data)
	if seeded == nil {
		seeded = Record{}
	}
	for _, section := range preview.Sections {
		for _, field := range section.Fields {
			value, ok := seeded[field.ID]
			if !ok || value == nil {
				if zero := ZeroValue(field); zero != nil {
					seeded[field.ID] = zero
				} else if !ok {
					seeded[field.ID] = nil
				}
				continue
			}
			if field.Behavior() == schema.FieldTypeStructuredList {
				seeded[field.ID] = ensureItemIDs(value, gen)
			}
		}
	}
	return seeded
}

func ensureItemIDs(value any, gen IDGenerator) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	for idx, raw := range items {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := entry[ItemIDKey].(string); !ok || id == "" {
			entry[ItemIDKey] = gen()
		}
		items[idx] = entry
	}
	return items
}

// Clone deep-copies a record so draft edits can never reach the snapshot
// through shared nested maps or slices.
func Clone(record Record) Record {
	if record == nil {
		return nil
	}
	out := make(Record, len(record))
	for key, value := range record {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep-copies a single record value.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = CloneValue(v)
		}
		return clone
	case Item:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = CloneValue(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = CloneValue(v)
		}
		return clone
	case []string:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = v
		}
		return clone
	default:
		return typed
	}
}
