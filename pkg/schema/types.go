package schema

// FieldType enumerates the closed set of editable value shapes the engine
// understands. Documents that evolve ahead of the engine may carry types
// outside this set; renderers treat those as FieldTypeText.
type FieldType string

const (
	FieldTypeText           FieldType = "text"
	FieldTypeTextarea       FieldType = "textarea"
	FieldTypeDate           FieldType = "date"
	FieldTypeDateTime       FieldType = "datetime"
	FieldTypeDropdown       FieldType = "dropdown"
	FieldTypeMultiDropdown  FieldType = "multi-dropdown"
	FieldTypeSlider         FieldType = "slider"
	FieldTypeToggle         FieldType = "toggle"
	FieldTypeNumber         FieldType = "number"
	FieldTypeList           FieldType = "list"
	FieldTypeStructuredList FieldType = "structured-list"
)

// Known reports whether the field type belongs to the supported set.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeDate, FieldTypeDateTime,
		FieldTypeDropdown, FieldTypeMultiDropdown, FieldTypeSlider,
		FieldTypeToggle, FieldTypeNumber, FieldTypeList, FieldTypeStructuredList:
		return true
	default:
		return false
	}
}

// Normalized maps unknown variants onto text so rendering dispatch and value
// seeding degrade instead of failing when schemas evolve independently.
func (t FieldType) Normalized() FieldType {
	if t.Known() {
		return t
	}
	return FieldTypeText
}

// IsListValued reports whether values of this type flow through the list
// mutation operations rather than a wholesale setter.
func (t FieldType) IsListValued() bool {
	switch t.Normalized() {
	case FieldTypeList, FieldTypeStructuredList:
		return true
	default:
		return false
	}
}

// Option is a single selectable choice for dropdown-shaped fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes one editable value inside a preview document. Ids double as
// keys into the document data record and must be unique across the whole
// schema, not just within a section.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	// Options is meaningful only for dropdown and multi-dropdown fields.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
	// Min, Max, and Step bound slider and number fields.
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	// ItemSchema describes the sub-fields of a structured-list element. It is
	// present iff Type is structured-list.
	ItemSchema []Field `json:"itemSchema,omitempty" yaml:"itemSchema,omitempty"`
	// Rows hints the visual height of textarea controls.
	Rows int `json:"rows,omitempty" yaml:"rows,omitempty"`
	// Enhanceable marks fields an operator may request an improved value for.
	Enhanceable bool `json:"aiEnhanceable,omitempty" yaml:"aiEnhanceable,omitempty"`
}

// Behavior resolves how the engine treats the field at runtime. Unknown
// variants degrade to text; a structured list missing its item schema
// degrades to a plain list. Degrading keeps documents renderable when
// schemas evolve ahead of the engine.
func (f Field) Behavior() FieldType {
	kind := f.Type.Normalized()
	if kind == FieldTypeStructuredList && len(f.ItemSchema) == 0 {
		return FieldTypeList
	}
	return kind
}

// DisplayLabel falls back to the field id when no label is declared.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// OptionLabel resolves the display label for a stored option value.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			if opt.Label != "" {
				return opt.Label
			}
			return opt.Value
		}
	}
	return value
}

// Section groups related fields under a title. Collapsed state is purely
// presentational and lives in the editing session, not here.
type Section struct {
	ID               string  `json:"id" yaml:"id"`
	Title            string  `json:"title" yaml:"title"`
	Icon             string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Fields           []Field `json:"fields" yaml:"fields"`
	Collapsible      bool    `json:"collapsible,omitempty" yaml:"collapsible,omitempty"`
	DefaultCollapsed bool    `json:"defaultCollapsed,omitempty" yaml:"defaultCollapsed,omitempty"`
}

// DataSource is an opaque provenance entry renderers may display when the
// preview opts in. The engine never interprets these.
type DataSource struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Preview is the declarative description of one editable document type: the
// ordered sections and fields an operator can revise before approving.
type Preview struct {
	Title           string    `json:"title" yaml:"title"`
	Icon            string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	AccentTheme     string    `json:"accentTheme,omitempty" yaml:"accentTheme,omitempty"`
	Sections        []Section `json:"sections" yaml:"sections"`
	ShowDataSources bool      `json:"showDataSources,omitempty" yaml:"showDataSources,omitempty"`
}

// Field resolves a field schema by id across every section.
func (p Preview) Field(id string) (Field, bool) {
	for _, section := range p.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// FieldIDs returns every field id in schema order.
func (p Preview) FieldIDs() []string {
	var ids []string
	for _, section := range p.Sections {
		for _, field := range section.Fields {
			ids = append(ids, field.ID)
		}
	}
	return ids
}
