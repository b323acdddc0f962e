// Package session defines the interfaces for creating and driving a
// document session. It abstracts away the details of local vs. remote
// documents.
package session

import (
	"context"

	"github.com/specialistvlad/propgraph/internal/render"
)

// SessionFactory creates sessions on one document. Each session owns its
// own document model, so sessions never see each other's actions.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Session is a single client's view of a document.
type Session interface {
	// ID identifies the session in logs and on the wire.
	ID() string
	// Render returns the full render and marks everything as seen.
	Render(ctx context.Context) (*render.Document, error)
	// Apply dispatches one action and returns the render updates it caused.
	Apply(ctx context.Context, req render.ActionRequest) ([]render.Update, error)
	// Close releases any resources held by the session.
	Close(ctx context.Context) error
}
