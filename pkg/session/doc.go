// Package session implements the schema-driven editable-document engine: it
// pairs a preview schema with a data record, tracks the evolving draft
// against its original snapshot, applies a uniform mutation algebra to
// list-valued fields, manages the per-field suggestion workflow, and runs
// the save/cancel exit protocol against caller-supplied collaborators.
package session
