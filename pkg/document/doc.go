// Package document models the data side of an editable preview: loosely
// typed records keyed by field id, deep copies for snapshot/draft pairs, and
// the structural equality that drives modification detection.
package document
