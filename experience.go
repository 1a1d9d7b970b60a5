package canopy

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventSwitch asks an Experience to switch to the scene named by its first
// argument.
const EventSwitch = "switch"

// readyNotifier is implemented by Resources that load asynchronously.
type readyNotifier interface {
	IsReady() bool
	OnReady(fn func())
}

// Experience runs a scene registry as an ebiten.Game. The first scene is
// initialized once resources are ready.
//
// Experience embeds an Emitter used as the application bus: triggering
// EventSwitch with a scene name switches to it.
type Experience struct {
	Emitter

	Manager  *Manager
	Renderer *Renderer

	ctx  *Context
	log  *slog.Logger
	last time.Time
	err  error

	started bool
	// deviceScale reports the device pixel ratio used by Layout.
	deviceScale func() float64
}

// NewExperience wires a manager and renderer over registry. The default scene
// initializes as soon as ctx.Resources is ready.
func NewExperience(ctx *Context, registry *Registry) (*Experience, error) {
	if ctx == nil {
		return nil, fmt.Errorf("canopy: new experience: %w", ErrNilContext)
	}
	if ctx.Viewport == nil {
		return nil, fmt.Errorf("canopy: new experience: %w", ErrNoViewport)
	}
	if ctx.Clock == nil || ctx.Pointer == nil || ctx.Scroll == nil {
		return nil, fmt.Errorf("canopy: new experience: %w", ErrIncompleteContext)
	}
	if registry == nil {
		return nil, fmt.Errorf("canopy: new experience: %w", ErrNoDefaultScene)
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	m, err := NewManager(ctx, registry)
	if err != nil {
		return nil, err
	}

	e := &Experience{
		Manager:     m,
		Renderer:    NewRenderer(ctx, m),
		ctx:         ctx,
		log:         ctx.logger(),
		deviceScale: monitorScale,
	}
	ctx.Viewport.On(EventResize+".experience", func(...any) any {
		e.resize()
		return nil
	})
	e.On(EventSwitch+"."+coreNS, func(args ...any) any {
		m.SwitchTo(arg[string](args, 0))
		return nil
	})

	if rn, ok := ctx.Resources.(readyNotifier); ok && !rn.IsReady() {
		rn.OnReady(e.start)
	} else {
		e.start()
	}
	return e, nil
}

// Started reports whether the first scene has been initialized.
func (e *Experience) Started() bool { return e.started }

// Context returns the experience context.
func (e *Experience) Context() *Context { return e.ctx }

func (e *Experience) start() {
	if e.started {
		return
	}
	e.started = true
	if err := e.Manager.Init(e.ctx.Config.DefaultScene); err != nil {
		e.log.Error("scene init failed", "err", err)
		e.err = err
		return
	}
	e.log.Info("experience started", "scene", e.Manager.ActiveName())
}

func (e *Experience) resize() {
	e.Renderer.Resize()
	e.Manager.Resize()
}

// Update implements ebiten.Game. dt is wall-clock time since the previous
// tick.
func (e *Experience) Update() error {
	if e.err != nil {
		return e.err
	}
	now := e.ctx.Clock.Now()
	var dt float64
	if !e.last.IsZero() {
		dt = now.Sub(e.last).Seconds()
	}
	e.last = now

	if o, ok := e.ctx.Debug.(*Overlay); ok && o != nil {
		o.Update()
	}
	e.ctx.Pointer.Update()
	e.ctx.Scroll.Update()
	e.Manager.Update(dt)
	return nil
}

// Draw implements ebiten.Game.
func (e *Experience) Draw(screen *ebiten.Image) {
	e.Renderer.Draw(screen)
}

// Layout implements ebiten.Game. The viewport tracks the window size and
// the screen is sized in device pixels.
func (e *Experience) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := 1.0
	if e.deviceScale != nil {
		dpr = e.deviceScale()
	}
	e.ctx.Viewport.SetSize(outsideWidth, outsideHeight, dpr)
	return e.ctx.Viewport.PixelSize()
}

// Dispose disposes every scene and releases renderer resources.
func (e *Experience) Dispose() {
	e.Manager.Dispose()
	e.Renderer.Dispose()
	e.ctx.Viewport.Off(".experience")
	e.OffAll()
}

// Run opens a window sized from the experience config and runs the game
// loop until it exits. Scenes are disposed on return.
func Run(e *Experience) error {
	cfg := e.ctx.Config
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(e)
	e.Dispose()
	return err
}

func monitorScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}
