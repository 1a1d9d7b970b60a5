package canopy

import (
	"log/slog"
	"time"
)

// Clock supplies wall-clock time. Hold gestures and transitions advance by
// elapsed wall time, not frame count.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Context carries the collaborators of one experience. It is built once and
// passed to every constructor; nothing in canopy reaches for globals.
//
// Debug and Audio may be nil. Every other field is set by NewContext.
type Context struct {
	Config Config
	Log    *slog.Logger
	Clock  Clock

	Viewport  *Viewport
	Resources Resources
	Pointer   *PointerManager
	Scroll    *ScrollManager
	Sink      StateSink

	Debug DebugPanel
	Audio AudioSystem
}

// Option customizes NewContext.
type Option func(*Context)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Context) { c.Log = log }
}

// WithClock sets the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Context) { c.Clock = clock }
}

// WithViewport replaces the viewport built from Config.Width and Height.
func WithViewport(v *Viewport) Option {
	return func(c *Context) { c.Viewport = v }
}

// WithResources sets the asset table.
func WithResources(r Resources) Option {
	return func(c *Context) { c.Resources = r }
}

// WithSink sets the state sink.
func WithSink(s StateSink) Option {
	return func(c *Context) { c.Sink = s }
}

// WithDebug sets the debug panel. Pass nil to run without one even when
// Config.Debug is on.
func WithDebug(d DebugPanel) Option {
	return func(c *Context) { c.Debug = d }
}

// WithAudio sets the positional audio system.
func WithAudio(a AudioSystem) Option {
	return func(c *Context) { c.Audio = a }
}

// NewContext builds a Context from cfg. Collaborators not supplied through
// options get defaults: a stderr logger, the system clock, a viewport of
// cfg.Width x cfg.Height, empty Assets, a no-op sink, and an Overlay when
// cfg.Debug is set.
func NewContext(cfg Config, opts ...Option) *Context {
	c := &Context{Config: cfg}
	if cfg.Debug {
		c.Debug = NewOverlay()
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.Log == nil {
		c.Log = NewLogger(nil, cfg.Debug)
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.Viewport == nil {
		c.Viewport = NewViewport(cfg.Width, cfg.Height, 1)
	}
	if c.Resources == nil {
		c.Resources = NewAssets()
	}
	if c.Sink == nil {
		c.Sink = nopSink{}
	}
	c.Pointer = NewPointerManager(c.Viewport)
	c.Scroll = NewScrollManager(cfg)
	return c
}

// logger returns the context logger, or a discarding one for a partially
// built Context.
func (c *Context) logger() *slog.Logger {
	if c == nil || c.Log == nil {
		return discardLogger()
	}
	return c.Log
}
