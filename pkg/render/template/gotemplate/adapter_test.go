package gotemplate_test

import (
	"strings"
	"testing"
	"testing/fstest"

	gotemplate "github.com/goliatone/go-docpreview/pkg/render/template/gotemplate"
)

func TestRenderTemplateFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"page.tmpl": {Data: []byte("Hello {{ name }}!")},
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(fsys),
		gotemplate.WithExtension(".tmpl"),
	)
	if err != nil {
		t.Fatalf("gotemplate.New: %v", err)
	}

	out, err := engine.RenderTemplate("page", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if out != "Hello world!" {
		t.Fatalf("output = %q", out)
	}

	// The extension is appended only when missing.
	out, err = engine.RenderTemplate("page.tmpl", map[string]any{"name": "again"})
	if err != nil {
		t.Fatalf("RenderTemplate with extension: %v", err)
	}
	if out != "Hello again!" {
		t.Fatalf("output = %q", out)
	}
}

func TestRenderString(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("gotemplate.New: %v", err)
	}

	out, err := engine.RenderString("{% for item in items %}[{{ item }}]{% endfor %}", map[string]any{
		"items": []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if out != "[a][b]" {
		t.Fatalf("output = %q", out)
	}
}

func TestRenderDispatchesInlineContent(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("gotemplate.New: %v", err)
	}

	out, err := engine.Render("{{ greeting }}", map[string]any{"greeting": "hi"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hi" {
		t.Fatalf("output = %q", out)
	}
}

func TestGlobalContext(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(fstest.MapFS{}),
		gotemplate.WithGlobalData(map[string]any{"site": "docpreview"}),
	)
	if err != nil {
		t.Fatalf("gotemplate.New: %v", err)
	}

	out, err := engine.RenderString("{{ site }}:{{ page }}", map[string]any{"page": "index"})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if out != "docpreview:index" {
		t.Fatalf("output = %q", out)
	}
}

func TestNewRequiresTemplateSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil || !strings.Contains(err.Error(), "base dir or fs.FS") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRenderTemplateUnsupportedContext(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{
		"x.tmpl": {Data: []byte("static")},
	}))
	if err != nil {
		t.Fatalf("gotemplate.New: %v", err)
	}
	if _, err := engine.RenderTemplate("x", 42); err == nil {
		t.Fatalf("expected unsupported context error")
	}
}
