// Package localsession provides a concrete implementation of the
// session.Session and session.SessionFactory interfaces for in-process
// documents.
package localsession

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/docmodel"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/metrics"
	"github.com/specialistvlad/propgraph/internal/render"
	"github.com/specialistvlad/propgraph/internal/session"
)

// ErrInternal is returned when a session call panics. The session stays
// usable; the panic is logged with its stack.
var ErrInternal = errors.New("internal error")

// SessionFactory implements session.SessionFactory for a loaded tree.
type SessionFactory struct {
	tree    *document.Tree
	reg     *component.Registry
	metrics *metrics.Metrics
}

var _ session.SessionFactory = (*SessionFactory)(nil)

// NewSessionFactory checks that tree instantiates against reg. m may be
// nil.
func NewSessionFactory(ctx context.Context, tree *document.Tree, reg *component.Registry, m *metrics.Metrics) (*SessionFactory, error) {
	if _, err := docmodel.New(ctx, tree, reg); err != nil {
		return nil, err
	}
	return &SessionFactory{tree: tree, reg: reg, metrics: m}, nil
}

// NewSession instantiates a fresh document model for one client.
func (f *SessionFactory) NewSession(ctx context.Context) (session.Session, error) {
	id := uuid.NewString()
	ctx = ctxlog.With(ctx, "session", id)

	var opts []docmodel.Option
	if f.metrics != nil {
		opts = append(opts, docmodel.WithObserver(f.metrics))
		f.metrics.SessionOpened()
	}
	dm, err := docmodel.New(ctx, f.tree, f.reg, opts...)
	if err != nil {
		if f.metrics != nil {
			f.metrics.SessionClosed()
		}
		return nil, fmt.Errorf("failed to instantiate document: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Session opened.", "components", dm.NumComponents())
	return &Session{
		id:      id,
		dm:      dm,
		reader:  dm.NewReader(),
		metrics: f.metrics,
	}, nil
}

// Session implements session.Session. Calls are serialized; the document
// model itself is single threaded.
type Session struct {
	id      string
	metrics *metrics.Metrics

	mu     sync.Mutex
	dm     *docmodel.DocumentModel
	reader graphnode.Node
	closed bool
}

// ID implements session.Session.
func (s *Session) ID() string {
	return s.id
}

// Render implements session.Session.
func (s *Session) Render(ctx context.Context) (doc *render.Document, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverPanic(ctx, "render", &err)
	if s.closed {
		return nil, fmt.Errorf("session %s is closed", s.id)
	}
	return render.Full(ctx, s.dm, s.reader)
}

// Apply implements session.Session.
func (s *Session) Apply(ctx context.Context, req render.ActionRequest) (updates []render.Update, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("session %s is closed", s.id)
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveAction(req.Action, time.Since(start), err)
		}
	}()
	defer s.recoverPanic(ctx, req.Action, &err)

	action, err := req.Resolve(s.dm)
	if err != nil {
		return nil, err
	}
	res, err := s.dm.DispatchAction(ctx, action)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Action settled.", "session", s.id, "action", req.Action, "written", len(res.Written), "touched", len(res.Touched))
	return render.Updates(ctx, s.dm, s.reader, res)
}

// recoverPanic turns a panic in the current call into ErrInternal.
func (s *Session) recoverPanic(ctx context.Context, op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	ctxlog.FromContext(ctx).Error("Session call panicked.", "session", s.id, "op", op, "panic", r, "stack", string(debug.Stack()))
	*err = fmt.Errorf("%w: %s: %v", ErrInternal, op, r)
}

// Close implements session.Session. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	ctxlog.FromContext(ctx).Debug("Session closed.", "session", s.id)
	return nil
}
