package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store keeps parsed preview schemas keyed by document-type id. It is safe
// for concurrent readers when treated as immutable after construction.
type Store struct {
	previews map[string]Preview
}

// LoadFS walks the provided filesystem and parses JSON/YAML preview schema
// documents. When fsys is nil or no schema files are present, the returned
// store is empty. Every parsed schema is validated strictly; a single
// malformed file fails the whole load so configuration errors surface at
// startup rather than degrading at render time.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{previews: make(map[string]Preview)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, preview := range doc.Previews {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("schema: file %s defines an empty preview id", path)
			}
			if _, exists := store.previews[id]; exists {
				return fmt.Errorf("schema: duplicate preview %q (file %s)", id, path)
			}
			if err := preview.ValidateStrict(); err != nil {
				return fmt.Errorf("%w (preview %q, file %s)", err, id, path)
			}
			preview.Icon = SanitizeIcon(preview.Icon)
			for i := range preview.Sections {
				preview.Sections[i].Icon = SanitizeIcon(preview.Sections[i].Icon)
			}
			store.previews[id] = preview
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Preview returns the schema registered under the supplied document-type id.
func (s *Store) Preview(id string) (Preview, bool) {
	if s == nil {
		return Preview{}, false
	}
	preview, ok := s.previews[id]
	return preview, ok
}

// IDs returns every registered document-type id in unspecified order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.previews))
	for id := range s.previews {
		ids = append(ids, id)
	}
	return ids
}

// Empty reports whether the store holds any previews.
func (s *Store) Empty() bool {
	return s == nil || len(s.previews) == 0
}

type documentFile struct {
	Previews map[string]Preview `json:"previews" yaml:"previews"`
}

func parseDocument(data []byte, path string) (documentFile, error) {
	var doc documentFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("schema: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("schema: parse %s: %w", path, err)
		}
	}
	if doc.Previews == nil {
		return doc, fmt.Errorf("schema: file %s declares no previews", path)
	}
	return doc, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
