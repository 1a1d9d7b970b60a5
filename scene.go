package canopy

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene lifecycle events, in addition to the item events it fans out.
const (
	EventDisposeStart = "disposestart"
	EventBeforeRender = "beforerender"
	EventAfterRender  = "afterrender"
)

// coreNS namespaces the handlers a scene registers on itself.
const coreNS = "core"

// SceneState is a position in the scene lifecycle.
type SceneState uint8

const (
	StateConstructed SceneState = iota // built, not loaded
	StateLoading                       // load ran; graph, target and caches exist
	StateReady                         // items received ready; interactive
	StateActive                        // in the manager's render list
	StateDisposing                     // outgoing; still rendering
	StateDisposed                      // released
)

func (s SceneState) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateDisposing:
		return "disposing"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("SceneState(%d)", uint8(s))
	}
}

// ChildScene is a keyed nested scene. Keys need not be unique; duplicates
// are renamed on load.
type ChildScene struct {
	Key   string
	Scene *Scene
}

// --- ID counter ---

var sceneIDCounter uint32

func nextSceneID() uint32 {
	sceneIDCounter++
	return sceneIDCounter
}

// Scene owns a camera, an offscreen render target, a tree of items and
// optionally nested scenes. Its lifecycle is driven entirely by events:
// "load", "ready", "update", "resize", "scroll", "disposestart" and
// "dispose". Scene code may add its own handlers for any of them; they run
// after the built-in ones.
type Scene struct {
	Emitter

	ID   uint32
	Name string

	// Components are the top-level items.
	Components []Component
	// Scenes are nested scenes rendered before this one.
	Scenes []ChildScene
	// Audios are positional sounds emitted from the scene root.
	Audios map[string]AudioParams

	Camera     *Camera
	Transition *Transition
	// Shader is an optional post-process pass applied to the target.
	Shader *Shader
	// Wireframe draws triangle edges instead of filled meshes.
	Wireframe bool

	ctx    *Context
	log    *slog.Logger
	root   *Object
	graph  graphAdder
	target *ebiten.Image

	state  SceneState
	active bool
	parent *Scene

	items  *arena[*Item]
	scenes *arena[*Scene]

	hovered     *Item
	hold        holdSession
	debugFolder DebugFolder
	listenNS    string
}

// NewScene creates a scene in the constructed state. ctx must carry a
// Viewport.
func NewScene(ctx *Context, name string) (*Scene, error) {
	if ctx == nil {
		return nil, fmt.Errorf("canopy: new scene %q: %w", name, ErrNilContext)
	}
	if ctx.Viewport == nil {
		return nil, fmt.Errorf("canopy: new scene %q: %w", name, ErrNoViewport)
	}

	s := &Scene{
		ID:         nextSceneID(),
		Name:       name,
		Camera:     NewCamera(name, ctx.Viewport.Aspect()),
		Transition: NewTransition(ctx.Config.TransitionDuration),
		ctx:        ctx,
		log:        ctx.logger().With("scene", name),
		root:       NewGroup(name),
		items:      newArena[*Item](),
		scenes:     newArena[*Scene](),
	}
	s.listenNS = fmt.Sprintf("scene%d", s.ID)
	s.graph = withInsertLogging(rootAdder{root: s.root}, s.log, func() bool {
		return ctx.Config.SceneLogs
	})

	s.Emitter.On(EventLoad+"."+coreNS, func(...any) any { s.onLoad(); return nil })
	s.Emitter.On(EventReady+"."+coreNS, func(...any) any { s.onReady(); return nil })
	s.Emitter.On(EventUpdate+"."+coreNS, func(args ...any) any { s.onUpdate(arg[float64](args, 0)); return nil })
	s.Emitter.On(EventResize+"."+coreNS, func(...any) any { s.onResize(); return nil })
	s.Emitter.On(EventScroll+"."+coreNS, func(args ...any) any { s.onScroll(arg[ScrollEvent](args, 0)); return nil })
	s.Emitter.On(EventDisposeStart+"."+coreNS, func(...any) any { s.onDisposeStart(); return nil })
	s.Emitter.On(EventDispose+"."+coreNS, func(...any) any { s.onDispose(); return nil })
	return s, nil
}

// AddComponent appends a top-level item under key. Call before load.
func (s *Scene) AddComponent(key string, item *Item) *Scene {
	s.Components = append(s.Components, Component{Key: key, Item: item})
	return s
}

// AddScene nests child under key. Call before load.
func (s *Scene) AddScene(key string, child *Scene) *Scene {
	s.Scenes = append(s.Scenes, ChildScene{Key: key, Scene: child})
	return s
}

// --- Accessors ---

// State returns the lifecycle state.
func (s *Scene) State() SceneState { return s.state }

// IsActive reports whether the scene is in the manager's render list.
func (s *Scene) IsActive() bool { return s.active }

// Root returns the graph root the camera renders.
func (s *Scene) Root() *Object { return s.root }

// Target returns the offscreen render target, nil before load and after
// dispose.
func (s *Scene) Target() *ebiten.Image { return s.target }

// Parent returns the scene this one is nested in.
func (s *Scene) Parent() *Scene { return s.parent }

// Context returns the context the scene was built with.
func (s *Scene) Context() *Context { return s.ctx }

// Items returns every loaded item, breadth-first.
func (s *Scene) Items() []*Item { return s.items.values() }

// ItemKeys returns the flattened item keys, duplicates already renamed.
func (s *Scene) ItemKeys() []string { return s.items.keys() }

// Item returns the loaded item under a flattened key.
func (s *Scene) Item(key string) *Item {
	it, _ := s.items.get(key)
	return it
}

// SceneKeys returns the flattened nested-scene keys.
func (s *Scene) SceneKeys() []string { return s.scenes.keys() }

// ChildScene returns the nested scene under a flattened key.
func (s *Scene) ChildScene(key string) *Scene {
	c, _ := s.scenes.get(key)
	return c
}

// Nested returns every nested scene at any depth, deepest first. This is
// the order they must render in so no scene samples an undrawn target.
func (s *Scene) Nested() []*Scene {
	nodes := s.scenes.nodes
	maxDepth := 0
	for _, n := range nodes {
		maxDepth = max(maxDepth, n.Depth)
	}
	out := make([]*Scene, 0, len(nodes))
	for d := maxDepth; d >= 1; d-- {
		for _, n := range nodes {
			if n.Depth == d {
				out = append(out, n.Value)
			}
		}
	}
	return out
}

// group returns the scene's render-list block: nested scenes deepest first,
// then the scene itself.
func (s *Scene) group() []*Scene {
	return append(s.Nested(), s)
}

// Hovered returns the item currently under the pointer, if any.
func (s *Scene) Hovered() *Item { return s.hovered }

// Held returns the item of the running hold session, if any.
func (s *Scene) Held() *Item { return s.hold.item }

// HoldProgress returns the hold progress in [0, 1].
func (s *Scene) HoldProgress() float64 { return s.hold.progress }

// Resource returns a loaded asset by name.
func (s *Scene) Resource(name string) (any, bool) {
	if s.ctx.Resources == nil {
		return nil, false
	}
	return s.ctx.Resources.Get(name)
}

// DebugFolder returns the scene's debug folder, nil without a debug panel
// or before load.
func (s *Scene) DebugFolder() DebugFolder { return s.debugFolder }

// --- State machine ---

// transition moves to next when allowed from the current state. Illegal
// moves are ignored with a warning.
func (s *Scene) transition(next SceneState, allowed ...SceneState) bool {
	for _, from := range allowed {
		if s.state == from {
			s.state = next
			return true
		}
	}
	s.log.Warn("illegal scene state transition ignored", "from", s.state, "to", next)
	return false
}

// setActive is called by the manager when the scene enters or leaves the
// render list.
func (s *Scene) setActive(active bool) {
	s.active = active
	if active && s.state == StateReady {
		s.state = StateActive
	}
}

// --- Lifecycle handlers ---

func (s *Scene) onReady() {
	if !s.transition(StateReady, StateLoading) {
		return
	}
	for _, it := range s.items.values() {
		it.Trigger(EventReady)
	}
	for _, c := range s.Scenes {
		if c.Scene != nil {
			c.Scene.Trigger(EventReady)
		}
	}
}

func (s *Scene) onUpdate(dt float64) {
	if s.state == StateConstructed || s.state == StateDisposed {
		return
	}
	s.Camera.Update(float32(dt))
	s.Transition.Update(dt)
	s.updateHold(dt)
	for _, it := range s.items.values() {
		it.Trigger(EventUpdate, dt)
	}
}

func (s *Scene) onResize() {
	if s.state == StateConstructed || s.state == StateDisposed {
		return
	}
	v := s.ctx.Viewport
	w, h := v.PixelSize()
	if s.target == nil || s.target.Bounds().Dx() != w || s.target.Bounds().Dy() != h {
		if s.target != nil {
			s.target.Deallocate()
		}
		s.target = newRenderTarget(v)
	}
	s.Camera.Resize(float64(w), float64(h))
	if s.Shader != nil {
		s.Shader.Resize(w, h)
	}
	s.Transition.Resize(w, h)
	for _, it := range s.items.values() {
		it.Trigger(EventResize)
	}
}

func (s *Scene) onScroll(ev ScrollEvent) {
	for _, it := range s.items.values() {
		it.Trigger(EventScroll, ev)
	}
}

func (s *Scene) onDisposeStart() {
	if !s.transition(StateDisposing, StateLoading, StateReady, StateActive) {
		return
	}
	for _, c := range s.Scenes {
		if c.Scene != nil {
			c.Scene.Trigger(EventDisposeStart)
		}
	}
}

func (s *Scene) onDispose() {
	if s.state == StateDisposed {
		return
	}
	s.state = StateDisposed
	s.removeDebug()

	for _, it := range s.items.values() {
		it.dispose(s.Camera)
	}
	for _, c := range s.Scenes {
		if c.Scene != nil {
			c.Scene.Trigger(EventDispose)
		}
	}
	s.items = newArena[*Item]()
	s.scenes = newArena[*Scene]()
	s.hovered = nil
	s.hold = holdSession{}

	s.Transition.Active = false
	s.Transition.Next = nil
	if s.target != nil {
		s.target.Deallocate()
		s.target = nil
	}
	s.Camera.Dispose(s.ctx.Audio)
	s.root.Dispose()

	if s.ctx.Pointer != nil {
		s.ctx.Pointer.Off("." + s.listenNS)
	}
	if s.ctx.Scroll != nil {
		s.ctx.Scroll.Off("." + s.listenNS)
	}
	s.OffAll()
}

func (s *Scene) removeDebug() {
	if s.ctx.Debug == nil {
		return
	}
	if s.debugFolder != nil {
		s.ctx.Debug.Remove(s.debugFolder)
		s.debugFolder = nil
	}
}

// --- Scene graph insertion ---

// graphAdder inserts objects into a scene graph.
type graphAdder interface {
	Add(o *Object)
}

type rootAdder struct {
	root *Object
}

func (r rootAdder) Add(o *Object) {
	r.root.AddChild(o)
}

// insertLogger logs every insertion at debug level while enabled reports
// true, then delegates.
type insertLogger struct {
	next    graphAdder
	log     *slog.Logger
	enabled func() bool
}

// withInsertLogging wraps next so insertions are logged. Composed once per
// scene at construction.
func withInsertLogging(next graphAdder, log *slog.Logger, enabled func() bool) graphAdder {
	return insertLogger{next: next, log: log, enabled: enabled}
}

func (l insertLogger) Add(o *Object) {
	if l.enabled() {
		l.log.Debug("object added to the scene", "object", o.Name, "id", o.ID, "children", o.NumChildren())
	}
	l.next.Add(o)
}
