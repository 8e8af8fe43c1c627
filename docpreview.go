// Package docpreview wires the preview engine together: schema loading,
// editing sessions over a data record, and the renderer registry. The
// sub-packages remain usable on their own; this package is the convenience
// surface for callers that want the stock setup.
package docpreview

import (
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/importer"
	"github.com/goliatone/go-docpreview/pkg/render"
	htmlrenderer "github.com/goliatone/go-docpreview/pkg/renderers/html"
	textrenderer "github.com/goliatone/go-docpreview/pkg/renderers/text"
	tuirenderer "github.com/goliatone/go-docpreview/pkg/renderers/tui"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

// Preview aliases the schema type describing one editable document type.
type Preview = schema.Preview

// Record aliases the loosely typed document data record.
type Record = document.Record

// Session aliases the editing session.
type Session = session.Session

// Collaborators aliases the session's external hook bundle.
type Collaborators = session.Collaborators

// SaveResult aliases the save collaborator's success payload.
type SaveResult = session.SaveResult

// RenderOptions aliases per-request renderer configuration.
type RenderOptions = render.RenderOptions

// NewSession opens an editing session for a preview schema over a data
// record. See session.New for option details.
func NewSession(preview Preview, data Record, collab Collaborators, options ...session.Option) (*Session, error) {
	return session.New(preview, data, collab, options...)
}

// LoadSchemas parses every preview schema document under the filesystem.
func LoadSchemas(fsys fs.FS) (*schema.Store, error) {
	return schema.LoadFS(fsys)
}

// ImportOpenAPI derives a preview schema from the named component of an
// OpenAPI document.
func ImportOpenAPI(ctx context.Context, data []byte, component string, options ...importer.Option) (*Preview, error) {
	return importer.FromData(ctx, data, component, options...)
}

// DefaultRegistry returns a registry holding the built-in renderers: html,
// text, and tui.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := htmlrenderer.New()
	if err != nil {
		return nil, fmt.Errorf("docpreview: configure html renderer: %w", err)
	}
	registry.MustRegister(html)
	registry.MustRegister(textrenderer.New())
	registry.MustRegister(tuirenderer.New())

	return registry, nil
}

// Render resolves a renderer by name from the registry and renders the
// session with it. A nil registry falls back to the defaults.
func Render(ctx context.Context, registry *render.Registry, name string, sess *Session, opts RenderOptions) ([]byte, error) {
	if registry == nil {
		defaults, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		registry = defaults
	}
	renderer, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, sess, opts)
}

// Edit runs the interactive terminal editor over the session until the
// operator saves or cancels, returning the serialized approved document.
func Edit(ctx context.Context, sess *Session, options ...tuirenderer.Option) ([]byte, error) {
	return tuirenderer.New(options...).Run(ctx, sess)
}

// ResolveTheme maps a schema's accent theme name through a go-theme selector
// into renderer-facing configuration.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*render.ThemeConfig, error) {
	return render.ResolveTheme(selector, name, variant)
}
