package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/docclient"
	"github.com/specialistvlad/propgraph/internal/render"
	"github.com/specialistvlad/propgraph/internal/session"
)

// Report is what a one-shot run prints: the outcome of every action in order
// followed by the final render.
type Report struct {
	Actions  []ActionResult   `json:"actions,omitempty" yaml:"actions,omitempty"`
	Document *render.Document `json:"document" yaml:"document"`
}

// ActionResult is the outcome of one action. Rejected actions carry Error and
// leave the document untouched.
type ActionResult struct {
	Request string          `json:"request" yaml:"request"`
	Updates []render.Update `json:"updates,omitempty" yaml:"updates,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Run executes the main application logic based on the configuration:
// serve the document when a port is set, otherwise run the actions once
// against a local or remote session and print the report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ServePort > 0 {
		return a.Serve(ctx)
	}

	requests, err := parseActions(a.config.Actions)
	if err != nil {
		return err
	}

	var sess session.Session
	if a.config.Remote != "" {
		client, err := docclient.Dial(ctx, a.config.Remote, docclient.Options{})
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", a.config.Remote, err)
		}
		sess = client
	} else {
		sess, err = a.factory.NewSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			a.logger.Warn("Failed to close session.", "error", err)
		}
	}()

	report, err := runActions(ctx, sess, a.config.Actions, requests)
	if err != nil {
		return err
	}
	if err := render.Encode(a.outW, a.format, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// parseActions decodes every request up front so a typo fails the run
// before anything is applied.
func parseActions(raw []string) ([]render.ActionRequest, error) {
	requests := make([]render.ActionRequest, 0, len(raw))
	for i, r := range raw {
		req, err := render.ParseActionRequest([]byte(r))
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// runActions applies requests to sess in order and renders the result.
func runActions(ctx context.Context, sess session.Session, raw []string, requests []render.ActionRequest) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}
	// Updates are relative to what the session has already rendered.
	if _, err := sess.Render(ctx); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	for i, req := range requests {
		result := ActionResult{Request: raw[i]}
		updates, err := sess.Apply(ctx, req)
		if err != nil {
			logger.Warn("Action rejected.", "action", req.Action, "error", err)
			result.Error = err.Error()
		} else {
			result.Updates = updates
		}
		report.Actions = append(report.Actions, result)
	}

	doc, err := sess.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	report.Document = doc
	return report, nil
}
