package app

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/server"
)

// Serve exposes the document over Socket.IO until ctx is cancelled. The
// health check server and the file watcher run alongside it; the first one
// to fail stops the others.
func (a *App) Serve(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	srv := server.New(ctx, a.factory)
	defer srv.Close()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", a.config.ServePort)
		logger.Info("🚀 Document server starting", "address", fmt.Sprintf("http://localhost%s%s", addr, server.Path))
		return serveUntilDone(gCtx, &http.Server{Addr: addr, Handler: srv.Handler()}, "document")
	})
	g.Go(func() error {
		return a.healthCheckServer(gCtx)
	})
	if a.config.Watch {
		g.Go(func() error {
			return a.watch(gCtx, srv)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("🏁 Document server stopped.")
	return nil
}
