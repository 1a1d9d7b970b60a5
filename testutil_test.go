package canopy

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// --- Log capture ---

// recordHandler is a slog.Handler that keeps every record.
type recordHandler struct {
	records *[]slog.Record
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r.Clone())
	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

// logRecorder captures log output for assertions.
type logRecorder struct {
	records []slog.Record
}

func (l *logRecorder) logger() *slog.Logger {
	return slog.New(recordHandler{records: &l.records})
}

// count returns how many records at level contain substr in their message.
func (l *logRecorder) count(level slog.Level, substr string) int {
	n := 0
	for _, r := range l.records {
		if r.Level == level && strings.Contains(r.Message, substr) {
			n++
		}
	}
	return n
}

// --- Clock ---

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// --- Fixtures ---

// testConfig is DefaultConfig shrunk to a small viewport with scene logs
// off.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 64
	cfg.Height = 48
	cfg.SceneLogs = false
	return cfg
}

// newTestContext builds a context with a discarding logger, no debug panel
// and a memory sink.
func newTestContext(t *testing.T, opts ...Option) (*Context, *MemorySink) {
	t.Helper()
	sink := &MemorySink{}
	base := []Option{WithLogger(discardLogger()), WithSink(sink), WithClock(&fakeClock{now: time.Unix(0, 0)})}
	return NewContext(testConfig(), append(base, opts...)...), sink
}

func mustScene(t *testing.T, ctx *Context, name string) *Scene {
	t.Helper()
	s, err := NewScene(ctx, name)
	if err != nil {
		t.Fatalf("NewScene(%q): %v", name, err)
	}
	return s
}

func mustItem(t *testing.T, ctx *Context, name string) *Item {
	t.Helper()
	it, err := NewItem(ctx, name)
	if err != nil {
		t.Fatalf("NewItem(%q): %v", name, err)
	}
	return it
}

// boxItem returns an item whose object is a 2x2x2 box at the origin, which
// the default camera sees at the centre of the viewport.
func boxItem(t *testing.T, ctx *Context, name string) *Item {
	t.Helper()
	it := mustItem(t, ctx, name)
	it.Object = NewMeshObject(name, NewBoxMesh(2, 2, 2))
	return it
}

// loadReady loads s and readies it the way the manager does on init.
func loadReady(s *Scene) {
	s.Trigger(EventLoad)
	s.Trigger(EventReady)
}

// centre returns the viewport centre in pixels.
func centre(ctx *Context) (float64, float64) {
	return float64(ctx.Viewport.Width) / 2, float64(ctx.Viewport.Height) / 2
}

// pump runs the pointer manager until its inject queue drains.
func pump(ctx *Context) {
	for ctx.Pointer.Queued() > 0 {
		ctx.Pointer.Update()
	}
}

// eventLog records event names in order.
type eventLog []string

func (l *eventLog) on(name string) Handler {
	return func(...any) any {
		*l = append(*l, name)
		return nil
	}
}
