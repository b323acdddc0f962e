// Package docclient is a Socket.IO client for a document server. A Client
// implements session.Session, so a remote document is driven exactly like
// a local one.
package docclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/render"
	"github.com/specialistvlad/propgraph/internal/server"
	"github.com/specialistvlad/propgraph/internal/session"
)

// DefaultTimeout bounds every round trip when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// ErrTimeout is returned when the server does not answer in time.
var ErrTimeout = errors.New("timed out waiting for the document server")

// Options configures a connection.
type Options struct {
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// reply is one server message, passed from event listeners to the caller.
type reply struct {
	payload any
	err     error
}

// Client is a connected remote session.
type Client struct {
	io      *socket.Socket
	timeout time.Duration

	// mu serializes round trips so replies match requests.
	mu       sync.Mutex
	rendered chan reply
	results  chan reply
	initial  *render.Document
}

var _ session.Session = (*Client)(nil)

// Dial connects to the server at rawURL and waits for the initial render.
func Dial(ctx context.Context, rawURL string, o Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	path := parsedURL.Path
	if path == "" || path == "/" {
		path = server.Path
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	c := &Client{
		io:       io,
		timeout:  timeout,
		rendered: make(chan reply, 1),
		results:  make(chan reply, 1),
	}

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("socket.io connection failed: %v", first(errs))
		if e, ok := first(errs).(error); ok {
			err = fmt.Errorf("socket.io connection failed: %w", e)
		}
		deliver(c.results, reply{err: err})
	})
	io.On(types.EventName(server.EventRendered), func(args ...any) {
		deliver(c.rendered, reply{payload: first(args)})
	})
	io.On(types.EventName(server.EventUpdated), func(args ...any) {
		deliver(c.results, reply{payload: first(args)})
	})
	io.On(types.EventName(server.EventActionError), func(args ...any) {
		deliver(c.results, reply{err: fmt.Errorf("server: %v", first(args))})
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	// The server renders once on connect; it may refuse with an error instead.
	var r reply
	select {
	case r = <-c.rendered:
	case r = <-c.results:
		if r.err == nil {
			r.err = errors.New("unexpected update before the initial render")
		}
	case <-ctx.Done():
		r.err = ctx.Err()
	case <-time.After(timeout):
		r.err = ErrTimeout
	}
	if r.err != nil {
		io.Disconnect()
		return nil, r.err
	}

	doc := new(render.Document)
	if err := decode(r.payload, doc); err != nil {
		io.Disconnect()
		return nil, err
	}
	c.initial = doc
	logger.Info("Successfully connected", "sid", c.ID())
	return c, nil
}

// Initial returns the render received on connect.
func (c *Client) Initial() *render.Document {
	return c.initial
}

// ID implements session.Session.
func (c *Client) ID() string {
	return string(c.io.Id())
}

// Render implements session.Session.
func (c *Client) Render(ctx context.Context) (*render.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	drain(c.rendered)
	c.io.Emit(server.EventRender)
	r, err := c.wait(ctx, c.rendered)
	if err != nil {
		return nil, err
	}
	doc := new(render.Document)
	if err := decode(r.payload, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Apply implements session.Session.
func (c *Client) Apply(ctx context.Context, req render.ActionRequest) ([]render.Update, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode action: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	drain(c.results)
	ctxlog.FromContext(ctx).Debug("Emitting event", "event", server.EventAction, "data", string(data))
	c.io.Emit(server.EventAction, string(data))
	r, err := c.wait(ctx, c.results)
	if err != nil {
		return nil, err
	}
	var updates []render.Update
	if err := decode(r.payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Close implements session.Session.
func (c *Client) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Disconnecting socket client")
	c.io.Disconnect()
	return nil
}

func (c *Client) wait(ctx context.Context, ch <-chan reply) (reply, error) {
	select {
	case r := <-ch:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-time.After(c.timeout):
		return reply{}, ErrTimeout
	}
}

func first(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// deliver hands r to a waiting caller, dropping it when a reply is
// already queued.
func deliver(ch chan reply, r reply) {
	select {
	case ch <- r:
	default:
	}
}

func drain(ch chan reply) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// decode converts a payload decoded by the Socket.IO parser into out.
func decode(payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("invalid server payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid server payload: %w", err)
	}
	return nil
}
