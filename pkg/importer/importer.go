// Package importer derives preview schemas from OpenAPI documents. Component
// schemas describe the data shape; x-preview vendor extensions carry the
// presentation hints the OpenAPI vocabulary lacks.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docpreview/pkg/schema"
)

const (
	titleExtensionKey       = "x-preview-title"
	iconExtensionKey        = "x-preview-icon"
	themeExtensionKey       = "x-preview-theme"
	showSourcesExtensionKey = "x-preview-show-data-sources"

	sectionExtensionKey     = "x-preview-section"
	labelExtensionKey       = "x-preview-label"
	typeExtensionKey        = "x-preview-type"
	placeholderExtensionKey = "x-preview-placeholder"
	enhanceableExtensionKey = "x-preview-enhanceable"
	rowsExtensionKey        = "x-preview-rows"
	orderExtensionKey       = "x-preview-order"
)

const defaultSectionTitle = "Details"

// Options control how a component schema becomes a preview.
type Options struct {
	// ResolveReferences validates the document and follows external refs.
	ResolveReferences bool
}

// Option mutates Options.
type Option func(*Options)

// WithResolveReferences enables document validation and external reference
// resolution before import.
func WithResolveReferences() Option {
	return func(o *Options) {
		o.ResolveReferences = true
	}
}

// FromData parses an OpenAPI document from raw bytes and derives a preview
// from the named component schema.
func FromData(ctx context.Context, data []byte, component string, options ...Option) (*schema.Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("importer: document payload is empty")
	}

	var opts Options
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("importer: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("importer: validate: %w", err)
		}
	}

	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("importer: document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("importer: component schema %q not found", component)
	}

	return fromComponent(component, ref.Value, opts)
}

func fromComponent(component string, src *openapi3.Schema, opts Options) (*schema.Preview, error) {
	if !typeIs(src.Type, openapi3.TypeObject) {
		return nil, fmt.Errorf("importer: component schema %q is not an object", component)
	}
	if len(src.Properties) == 0 {
		return nil, fmt.Errorf("importer: component schema %q has no properties", component)
	}

	preview := schema.Preview{
		Title:           src.Title,
		Icon:            extString(src.Extensions, iconExtensionKey),
		AccentTheme:     extString(src.Extensions, themeExtensionKey),
		ShowDataSources: extBool(src.Extensions, showSourcesExtensionKey),
	}
	if title := extString(src.Extensions, titleExtensionKey); title != "" {
		preview.Title = title
	}
	if preview.Title == "" {
		preview.Title = component
	}

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	sections := map[string]*schema.Section{}
	var order []string
	for _, name := range sortedProperties(src.Properties) {
		prop := src.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		field, err := convertField(name, prop.Value, required[name])
		if err != nil {
			return nil, fmt.Errorf("importer: property %q: %w", name, err)
		}

		title := extString(prop.Value.Extensions, sectionExtensionKey)
		if title == "" {
			title = defaultSectionTitle
		}
		id := sectionID(title)
		section, ok := sections[id]
		if !ok {
			section = &schema.Section{ID: id, Title: title}
			sections[id] = section
			order = append(order, id)
		}
		section.Fields = append(section.Fields, field)
	}

	for _, id := range order {
		preview.Sections = append(preview.Sections, *sections[id])
	}

	if err := preview.Validate(); err != nil {
		return nil, fmt.Errorf("importer: derived preview: %w", err)
	}
	return &preview, nil
}

func convertField(name string, src *openapi3.Schema, required bool) (schema.Field, error) {
	field := schema.Field{
		ID:          name,
		Label:       src.Title,
		Placeholder: extString(src.Extensions, placeholderExtensionKey),
		Required:    required,
		Enhanceable: extBool(src.Extensions, enhanceableExtensionKey),
	}
	if label := extString(src.Extensions, labelExtensionKey); label != "" {
		field.Label = label
	}

	field.Type = resolveType(src)
	switch field.Type {
	case schema.FieldTypeDropdown:
		field.Options = enumOptions(src.Enum)
	case schema.FieldTypeMultiDropdown:
		if src.Items != nil && src.Items.Value != nil {
			field.Options = enumOptions(src.Items.Value.Enum)
		}
	case schema.FieldTypeNumber, schema.FieldTypeSlider:
		field.Min = copyFloat(src.Min)
		field.Max = copyFloat(src.Max)
		field.Step = copyFloat(src.MultipleOf)
	case schema.FieldTypeTextarea:
		if rows, ok := extInt(src.Extensions, rowsExtensionKey); ok {
			field.Rows = rows
		}
	case schema.FieldTypeStructuredList:
		if src.Items == nil || src.Items.Value == nil {
			return schema.Field{}, errors.New("structured list without item schema")
		}
		itemRequired := make(map[string]bool, len(src.Items.Value.Required))
		for _, sub := range src.Items.Value.Required {
			itemRequired[sub] = true
		}
		for _, subName := range sortedProperties(src.Items.Value.Properties) {
			subRef := src.Items.Value.Properties[subName]
			if subRef == nil || subRef.Value == nil {
				continue
			}
			sub, err := convertField(subName, subRef.Value, itemRequired[subName])
			if err != nil {
				return schema.Field{}, fmt.Errorf("item property %q: %w", subName, err)
			}
			field.ItemSchema = append(field.ItemSchema, sub)
		}
		if len(field.ItemSchema) == 0 {
			return schema.Field{}, errors.New("structured list item schema has no properties")
		}
	}

	return field, nil
}

// resolveType picks a widget for a property. An explicit x-preview-type wins;
// otherwise the choice follows the schema's type, format, and enum shape.
func resolveType(src *openapi3.Schema) schema.FieldType {
	if explicit := schema.FieldType(extString(src.Extensions, typeExtensionKey)); explicit.Known() {
		return explicit
	}

	switch {
	case typeIs(src.Type, openapi3.TypeBoolean):
		return schema.FieldTypeToggle
	case typeIs(src.Type, openapi3.TypeNumber), typeIs(src.Type, openapi3.TypeInteger):
		if src.Min != nil && src.Max != nil {
			return schema.FieldTypeSlider
		}
		return schema.FieldTypeNumber
	case typeIs(src.Type, openapi3.TypeArray):
		if src.Items != nil && src.Items.Value != nil {
			items := src.Items.Value
			if len(items.Enum) > 0 {
				return schema.FieldTypeMultiDropdown
			}
			if typeIs(items.Type, openapi3.TypeObject) {
				return schema.FieldTypeStructuredList
			}
		}
		return schema.FieldTypeList
	default:
		if len(src.Enum) > 0 {
			return schema.FieldTypeDropdown
		}
		switch src.Format {
		case "date":
			return schema.FieldTypeDate
		case "date-time":
			return schema.FieldTypeDateTime
		}
		if _, ok := extInt(src.Extensions, rowsExtensionKey); ok {
			return schema.FieldTypeTextarea
		}
		if src.MaxLength != nil && *src.MaxLength >= 256 {
			return schema.FieldTypeTextarea
		}
		return schema.FieldTypeText
	}
}

func enumOptions(enum []any) []schema.Option {
	options := make([]schema.Option, 0, len(enum))
	for _, raw := range enum {
		value, ok := raw.(string)
		if !ok || value == "" {
			continue
		}
		options = append(options, schema.Option{Value: value})
	}
	return options
}

// sortedProperties orders property names by x-preview-order when present,
// then alphabetically. OpenAPI object properties carry no authored order.
func sortedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iok := propertyOrder(props[names[i]])
		oj, jok := propertyOrder(props[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func propertyOrder(ref *openapi3.SchemaRef) (int, bool) {
	if ref == nil || ref.Value == nil {
		return 0, false
	}
	return extInt(ref.Value.Extensions, orderExtensionKey)
}

func sectionID(title string) string {
	var builder strings.Builder
	builder.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			builder.WriteByte('-')
		}
	}
	id := strings.Trim(builder.String(), "-")
	if id == "" {
		return "section"
	}
	return id
}

func typeIs(types *openapi3.Types, want string) bool {
	return types != nil && types.Is(want)
}

func extString(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return value
}

func extBool(ext map[string]any, key string) bool {
	value, _ := ext[key].(bool)
	return value
}

func extInt(ext map[string]any, key string) (int, bool) {
	switch v := ext[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
