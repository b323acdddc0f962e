package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/propgraph/internal/components"
	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/hcldoc"
	"github.com/specialistvlad/propgraph/internal/localsession"
	"github.com/specialistvlad/propgraph/internal/metrics"
	"github.com/specialistvlad/propgraph/internal/render"
	"github.com/specialistvlad/propgraph/internal/session"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness is one loaded document with an open session.
type Harness struct {
	t        *testing.T
	Ctx      context.Context
	Logs     *SafeBuffer
	Registry *prometheus.Registry
	Session  session.Session
	// Initial is the render taken when the session opened.
	Initial *render.Document
}

// newContext returns a context carrying a debug logger that writes to logs.
func newContext(t *testing.T, logs *SafeBuffer) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("PROPGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger)
}

// WriteFiles writes files, keyed by relative path, under a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Load loads files as one document and reports the load or instantiation
// error, if any.
func Load(t *testing.T, files map[string]string) (*localsession.SessionFactory, error) {
	t.Helper()
	logs := &SafeBuffer{}
	ctx := newContext(t, logs)
	return load(ctx, WriteFiles(t, files), nil)
}

func load(ctx context.Context, dir string, m *metrics.Metrics) (*localsession.SessionFactory, error) {
	tree, err := hcldoc.NewLoader().Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return localsession.NewSessionFactory(ctx, tree, components.NewRegistry(), m)
}

// NewHarness loads files, opens a session and takes the initial render.
func NewHarness(t *testing.T, files map[string]string) *Harness {
	t.Helper()
	logs := &SafeBuffer{}
	ctx := newContext(t, logs)
	reg := prometheus.NewRegistry()

	factory, err := load(ctx, WriteFiles(t, files), metrics.New(reg))
	require.NoError(t, err)
	sess, err := factory.NewSession(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close(ctx) })

	initial, err := sess.Render(ctx)
	require.NoError(t, err)

	return &Harness{
		t:        t,
		Ctx:      ctx,
		Logs:     logs,
		Registry: reg,
		Session:  sess,
		Initial:  initial,
	}
}

// NewDocumentHarness is NewHarness for a single file.
func NewDocumentHarness(t *testing.T, src string) *Harness {
	t.Helper()
	return NewHarness(t, map[string]string{"main.hcl": src})
}
