// Package html renders a session as a standalone read-only HTML page. The
// page chrome comes from an embedded template bundle so callers can swap in
// their own layout; field markup is generated in Go.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/goliatone/go-docpreview/pkg/render"
	rendertemplate "github.com/goliatone/go-docpreview/pkg/render/template"
	gotemplate "github.com/goliatone/go-docpreview/pkg/render/template/gotemplate"
	"github.com/goliatone/go-docpreview/pkg/schema"
	"github.com/goliatone/go-docpreview/pkg/session"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, sess *session.Session, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if sess == nil {
		return nil, fmt.Errorf("html renderer: session is required")
	}

	preview := sess.Preview()

	data := map[string]any{
		"title":    preview.Title,
		"icon":     schema.SanitizeIcon(preview.Icon),
		"modified": sess.IsModified(),
		"sections": buildSectionsMarkup(sess, opts.ShowOriginal),
		"css_vars": cssVarLines(opts.Theme),
	}
	if preview.ShowDataSources {
		data["data_sources"] = sess.DataSources()
	}

	result, err := r.templates.RenderTemplate("templates/page.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// cssVarLines flattens the resolved theme into declaration lines for the
// page's :root block, sorted so output is stable.
func cssVarLines(theme *render.ThemeConfig) []string {
	if theme == nil || len(theme.CSSVars) == 0 {
		return nil
	}
	names := make([]string, 0, len(theme.CSSVars))
	for name := range theme.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s;", name, theme.CSSVars[name]))
	}
	return lines
}
