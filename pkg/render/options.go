package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers can use to customise
// their output without reaching into the session.
type RenderOptions struct {
	// Theme carries the resolved accent theme for backends that style their
	// output. Nil means the renderer's defaults apply.
	Theme *ThemeConfig
	// ShowOriginal asks read-only backends to render the snapshot value next
	// to any draft value that differs from it.
	ShowOriginal bool
}

// ThemeConfig is the renderer-facing shape of a go-theme selection: merged
// tokens, derived CSS variables, and an asset URL resolver.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	AssetURL func(key string) string
}

// ResolveTheme maps a schema's accent theme name through a go-theme selector
// into a ThemeConfig. Variant tokens override base tokens; every token also
// becomes a --prefixed CSS variable.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*ThemeConfig, error) {
	if selector == nil || strings.TrimSpace(name) == "" {
		return nil, nil
	}

	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: resolve theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}

	manifest := selection.Manifest
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}

	assets := manifest.Assets
	if selection.Variant != "" {
		if variantCfg, ok := manifest.Variants[selection.Variant]; ok {
			for key, value := range variantCfg.Tokens {
				tokens[key] = value
			}
			for key, value := range variantCfg.Assets.Files {
				if assets.Files == nil {
					assets.Files = map[string]string{}
				}
				assets.Files[key] = value
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimSuffix(assets.Prefix, "/")
	files := assets.Files

	return &ThemeConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return prefix + "/" + file
		},
	}, nil
}
