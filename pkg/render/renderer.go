package render

import (
	"context"

	"github.com/goliatone/go-docpreview/pkg/session"
)

// Renderer converts an editing session into a byte representation of its
// editable surface. Read-only backends (HTML, text) snapshot the session's
// current state; interactive backends (TUI) drive the session through edits
// until the operator saves or cancels.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, sess *session.Session, options RenderOptions) ([]byte, error)
}
