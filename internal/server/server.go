// Package server exposes document sessions over Socket.IO. Every connection
// gets its own session; actions flow in as "action" events and render
// updates flow back as "updated" events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/render"
	"github.com/specialistvlad/propgraph/internal/session"
)

// Event names on the wire.
const (
	EventAction      = "action"
	EventRender      = "render"
	EventRendered    = "rendered"
	EventUpdated     = "updated"
	EventActionError = "action_error"

	// Path is where the Socket.IO endpoint is mounted.
	Path = "/socket.io/"
)

// Server hands out sessions to Socket.IO clients.
type Server struct {
	ctx context.Context
	io  *socket.Server

	mu      sync.RWMutex
	factory session.SessionFactory
}

// New creates a server whose sessions come from factory. ctx carries the
// logger and bounds the lifetime of every session.
func New(ctx context.Context, factory session.SessionFactory) *Server {
	s := &Server{
		ctx:     ctx,
		io:      socket.NewServer(nil, nil),
		factory: factory,
	}
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			ctxlog.FromContext(ctx).Error("Unexpected connection payload.", "type", fmt.Sprintf("%T", clients[0]))
			return
		}
		s.accept(client)
	})
	return s
}

// Handler returns the HTTP handler serving the Socket.IO endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, s.io.ServeHandler(nil))
	return mux
}

// Reload swaps the factory used for new connections. Open sessions keep
// the document they started with.
func (s *Server) Reload(factory session.SessionFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factory = factory
	ctxlog.FromContext(s.ctx).Info("Document reloaded for new sessions.")
}

// Close disconnects every client.
func (s *Server) Close() {
	s.io.Close(nil)
}

func (s *Server) currentFactory() session.SessionFactory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factory
}

func (s *Server) accept(client *socket.Socket) {
	ctx := ctxlog.With(s.ctx, "socket", string(client.Id()))
	logger := ctxlog.FromContext(ctx)

	sess, err := s.currentFactory().NewSession(ctx)
	if err != nil {
		logger.Error("Failed to open session.", "error", err)
		client.Emit(EventActionError, err.Error())
		client.Disconnect(true)
		return
	}
	ctx = ctxlog.With(ctx, "session", sess.ID())
	logger = ctxlog.FromContext(ctx)
	logger.Info("Client connected.")

	client.On(EventRender, func(...any) {
		s.emitRender(ctx, client, sess)
	})

	client.On(EventAction, func(args ...any) {
		if len(args) == 0 {
			client.Emit(EventActionError, "action event carries no payload")
			return
		}
		req, err := decodeRequest(args[0])
		if err != nil {
			client.Emit(EventActionError, err.Error())
			return
		}
		updates, err := sess.Apply(ctx, req)
		if err != nil {
			logger.Debug("Action failed.", "action", req.Action, "error", err)
			client.Emit(EventActionError, err.Error())
			return
		}
		client.Emit(EventUpdated, updates)
	})

	client.On("disconnect", func(reason ...any) {
		logger.Info("Client disconnected.", "reason", fmt.Sprint(reason...))
		if err := sess.Close(ctx); err != nil {
			logger.Warn("Failed to close session.", "error", err)
		}
	})

	s.emitRender(ctx, client, sess)
}

func (s *Server) emitRender(ctx context.Context, client *socket.Socket, sess session.Session) {
	doc, err := sess.Render(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Render failed.", "error", err)
		client.Emit(EventActionError, err.Error())
		return
	}
	client.Emit(EventRendered, doc)
}

// decodeRequest accepts a request as a JSON string or as an already
// decoded object.
func decodeRequest(payload any) (render.ActionRequest, error) {
	var data []byte
	switch p := payload.(type) {
	case string:
		data = []byte(p)
	case []byte:
		data = p
	case nil:
		return render.ActionRequest{}, errors.New("action event carries no payload")
	default:
		encoded, err := json.Marshal(p)
		if err != nil {
			return render.ActionRequest{}, fmt.Errorf("invalid action payload: %w", err)
		}
		data = encoded
	}
	return render.ParseActionRequest(data)
}
