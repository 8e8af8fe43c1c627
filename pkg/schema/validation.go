package schema

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants a preview schema must satisfy
// before a session can be seeded from it: unique section ids, unique field
// ids across the whole document, and options present on dropdown-shaped
// fields. Shapes that have a safe degraded reading are tolerated here:
// an unrecognized field variant renders as text regardless of what else it
// declares, and a structured list missing its item schema behaves as a
// plain list (see Field.Behavior).
func (p Preview) Validate() error {
	return p.validate(false)
}

// ValidateStrict additionally rejects the shapes Validate tolerates by
// degradation: options or item schemas on unrecognized variants, and
// structured lists missing their item schema. Schema stores validate
// strictly so authoring mistakes surface at load time instead of silently
// degrading.
func (p Preview) ValidateStrict() error {
	return p.validate(true)
}

func (p Preview) validate(strict bool) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("schema: preview title is required")
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("schema: preview %q declares no sections", p.Title)
	}

	sectionIDs := make(map[string]struct{}, len(p.Sections))
	fieldIDs := make(map[string]struct{})

	for _, section := range p.Sections {
		id := strings.TrimSpace(section.ID)
		if id == "" {
			return fmt.Errorf("schema: section %q has an empty id", section.Title)
		}
		if _, exists := sectionIDs[id]; exists {
			return fmt.Errorf("schema: duplicate section id %q", id)
		}
		sectionIDs[id] = struct{}{}

		if section.DefaultCollapsed && !section.Collapsible {
			return fmt.Errorf("schema: section %q is defaultCollapsed but not collapsible", id)
		}

		for _, field := range section.Fields {
			if err := validateField(field, fieldIDs, strict); err != nil {
				return fmt.Errorf("schema: section %q: %w", id, err)
			}
		}
	}
	return nil
}

func validateField(field Field, seen map[string]struct{}, strict bool) error {
	id := strings.TrimSpace(field.ID)
	if id == "" {
		return fmt.Errorf("field %q has an empty id", field.Label)
	}
	if _, exists := seen[id]; exists {
		return fmt.Errorf("duplicate field id %q", id)
	}
	seen[id] = struct{}{}

	kind := field.Type.Normalized()
	known := field.Type.Known()

	switch kind {
	case FieldTypeDropdown, FieldTypeMultiDropdown:
		if len(field.Options) == 0 {
			return fmt.Errorf("field %q (%s) declares no options", id, kind)
		}
	default:
		// An unrecognized variant renders as text whatever it declares, so
		// stray options only matter when validating strictly.
		if len(field.Options) > 0 && (known || strict) {
			return fmt.Errorf("field %q (%s) must not declare options", id, kind)
		}
	}

	if kind == FieldTypeStructuredList {
		// Without an item schema the field behaves as a plain list; only a
		// strict validation treats the omission as an authoring mistake.
		if len(field.ItemSchema) == 0 && strict {
			return fmt.Errorf("structured-list field %q is missing its item schema", id)
		}
		subIDs := make(map[string]struct{}, len(field.ItemSchema))
		for _, sub := range field.ItemSchema {
			subID := strings.TrimSpace(sub.ID)
			if subID == "" {
				return fmt.Errorf("structured-list field %q has a sub-field with an empty id", id)
			}
			if _, exists := subIDs[subID]; exists {
				return fmt.Errorf("structured-list field %q repeats sub-field id %q", id, subID)
			}
			subIDs[subID] = struct{}{}
			if sub.Type.Normalized() == FieldTypeStructuredList {
				return fmt.Errorf("structured-list field %q nests another structured list (%q)", id, subID)
			}
		}
	} else if len(field.ItemSchema) > 0 && (known || strict) {
		return fmt.Errorf("field %q (%s) must not declare an item schema", id, kind)
	}

	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		return fmt.Errorf("field %q declares min %v greater than max %v", id, *field.Min, *field.Max)
	}
	return nil
}
