package tui

import "github.com/goliatone/go-docpreview/pkg/session"

// OutputFormat controls how the approved document is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the final draft as application/json.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly key/value summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the editing loop.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization of the approved document.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithFollowOn registers the save-and-continue callback. When present the
// save menu gains a secondary action that forwards the save result to this
// callback after a successful save.
func WithFollowOn(next func(*session.SaveResult)) Option {
	return func(r *Renderer) {
		r.followOn = next
	}
}
