package canopy

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Item lifecycle and interaction events.
const (
	EventLoad       = "load"
	EventReady      = "ready"
	EventUpdate     = "update"
	EventResize     = "resize"
	EventScroll     = "scroll"
	EventClick      = "click"
	EventMouseDown  = "mousedown"
	EventMouseUp    = "mouseup"
	EventMouseMove  = "mousemove"
	EventMouseEnter = "mouseenter"
	EventMouseLeave = "mouseleave"
	EventMouseHover = "mousehover"
	EventHold       = "hold"
	EventDispose    = "dispose"
)

// itemEvents is the fixed set Item.On accepts.
var itemEvents = []string{
	EventLoad, EventReady, EventUpdate, EventResize, EventScroll,
	EventClick, EventMouseDown, EventMouseUp, EventMouseMove,
	EventMouseEnter, EventMouseLeave, EventMouseHover, EventHold, EventDispose,
}

// HoverEvent is the payload of "mousehover".
type HoverEvent struct {
	PointerEvent
	Hit Hit
}

// Component is a keyed child item. Keys need not be unique; duplicates are
// renamed when the owning scene flattens its items.
type Component struct {
	Key  string
	Item *Item
}

// --- ID counter ---

var itemIDCounter uint32

func nextItemID() uint32 {
	itemIDCounter++
	return itemIDCounter
}

// Item is a renderable unit owned by a scene. It owns one Object, may nest
// child items as Components, and reacts to lifecycle and pointer events
// registered through On.
type Item struct {
	Emitter

	ID   uint32
	Name string

	// Object is the item's primitive. Defaults to an empty group.
	Object *Object
	// Components are nested items, attached under a "components" group
	// beneath Object when the scene loads.
	Components []Component
	// Audios are positional sounds emitted from Object.
	Audios map[string]AudioParams

	// HoldDuration is how long a press must last for hold(true).
	HoldDuration time.Duration
	// DisabledEvents suppresses events for this item and its descendants.
	DisabledEvents []string
	// IgnoredEvents suppresses events for this item only; a matching
	// ancestor receives them instead.
	IgnoredEvents []string

	ctx             *Context
	log             *slog.Logger
	scene           *Scene
	parent          *Item
	componentsGroup *Object
	debugFolder     DebugFolder
	disposed        bool
}

// NewItem creates an item. ctx is required.
func NewItem(ctx *Context, name string) (*Item, error) {
	if ctx == nil {
		return nil, fmt.Errorf("canopy: new item %q: %w", name, ErrNilContext)
	}
	return &Item{
		ID:           nextItemID(),
		Name:         name,
		Object:       NewGroup(name),
		HoldDuration: ctx.Config.HoldDuration,
		ctx:          ctx,
		log:          ctx.logger().With("item", name),
	}, nil
}

// On registers fn for one or more item events. Names outside the item
// event set are rejected with a warning.
func (i *Item) On(names string, fn Handler) *Item {
	for _, n := range resolveNames(names) {
		if !slices.Contains(itemEvents, n.value) {
			i.log.Warn("unknown item event ignored", "event", n.value)
			continue
		}
		name := n.value
		if n.namespace != baseNamespace {
			name += "." + n.namespace
		}
		i.Emitter.On(name, fn)
	}
	return i
}

// AddComponent appends a child item under key.
func (i *Item) AddComponent(key string, child *Item) *Item {
	i.Components = append(i.Components, Component{Key: key, Item: child})
	return i
}

// Component returns the first child registered under key.
func (i *Item) Component(key string) *Item {
	for _, c := range i.Components {
		if c.Key == key {
			return c.Item
		}
	}
	return nil
}

// Scene returns the owning scene, nil before the first load.
func (i *Item) Scene() *Scene {
	return i.scene
}

// Parent returns the item this one is a component of, nil at top level.
func (i *Item) Parent() *Item {
	return i.parent
}

// Context returns the context the item was built with.
func (i *Item) Context() *Context {
	return i.ctx
}

// Resource returns a loaded asset by name.
func (i *Item) Resource(name string) (any, bool) {
	if i.ctx.Resources == nil {
		return nil, false
	}
	return i.ctx.Resources.Get(name)
}

// DebugFolder returns the item's debug folder, creating it on first use.
// Nil when the context has no debug panel.
func (i *Item) DebugFolder() DebugFolder {
	if i.ctx.Debug == nil {
		return nil
	}
	if i.debugFolder == nil {
		i.debugFolder = i.ctx.Debug.AddFolder("Item - " + i.Name)
	}
	return i.debugFolder
}

// AddDebugObject shows the world position of the item's object in its debug
// folder. No-op without a debug panel.
func (i *Item) AddDebugObject() {
	folder := i.DebugFolder()
	if folder == nil {
		return
	}
	folder.AddToggle("visible", &i.Object.Visible, nil)
	folder.AddMonitor("position", func() string {
		p := i.Object.WorldPosition()
		return fmt.Sprintf("%.2f, %.2f, %.2f", p[0], p[1], p[2])
	})
}

// IsDisposed reports whether the owning scene has disposed the item.
func (i *Item) IsDisposed() bool {
	return i.disposed
}

// --- Typed helpers ---

// OnLoad runs fn when the owning scene loads the item.
func (i *Item) OnLoad(fn func()) *Item {
	return i.On(EventLoad, func(...any) any { fn(); return nil })
}

// OnReady runs fn when the owning scene becomes interactive.
func (i *Item) OnReady(fn func()) *Item {
	return i.On(EventReady, func(...any) any { fn(); return nil })
}

// OnUpdate runs fn every tick with the elapsed wall time in seconds.
func (i *Item) OnUpdate(fn func(dt float64)) *Item {
	return i.On(EventUpdate, func(args ...any) any { fn(arg[float64](args, 0)); return nil })
}

// OnResize runs fn after the viewport changes size.
func (i *Item) OnResize(fn func()) *Item {
	return i.On(EventResize, func(...any) any { fn(); return nil })
}

// OnScroll runs fn for every scroll step.
func (i *Item) OnScroll(fn func(ScrollEvent)) *Item {
	return i.On(EventScroll, func(args ...any) any { fn(arg[ScrollEvent](args, 0)); return nil })
}

// OnClick runs fn when a press lands on the item.
func (i *Item) OnClick(fn func(PointerEvent)) *Item {
	return i.On(EventClick, func(args ...any) any { fn(arg[PointerEvent](args, 0)); return nil })
}

// OnMouseEnter runs fn when the pointer starts hovering the item.
func (i *Item) OnMouseEnter(fn func(PointerEvent)) *Item {
	return i.On(EventMouseEnter, func(args ...any) any { fn(arg[PointerEvent](args, 0)); return nil })
}

// OnMouseLeave runs fn when the pointer stops hovering the item.
func (i *Item) OnMouseLeave(fn func(PointerEvent)) *Item {
	return i.On(EventMouseLeave, func(args ...any) any { fn(arg[PointerEvent](args, 0)); return nil })
}

// OnMouseHover runs fn on every pointer move over the item.
func (i *Item) OnMouseHover(fn func(HoverEvent)) *Item {
	return i.On(EventMouseHover, func(args ...any) any { fn(arg[HoverEvent](args, 0)); return nil })
}

// OnHold runs fn with true when a hold completes and false when it is
// released early or the pointer moves off the item.
func (i *Item) OnHold(fn func(success bool)) *Item {
	return i.On(EventHold, func(args ...any) any { fn(arg[bool](args, 0)); return nil })
}

// OnDispose runs fn when the owning scene disposes the item.
func (i *Item) OnDispose(fn func()) *Item {
	return i.On(EventDispose, func(...any) any { fn(); return nil })
}

// --- Scene integration ---

// bind assigns the owning scene and parent. The scene reference is set
// once; a second scene trying to claim the item is refused.
func (i *Item) bind(s *Scene, parent *Item) bool {
	if i.scene != nil && i.scene != s {
		i.log.Warn("item already belongs to another scene",
			"scene", i.scene.Name, "claimed_by", s.Name)
		return false
	}
	i.scene = s
	i.parent = parent
	return true
}

// live reports whether at least one callback is bound for event.
func (i *Item) live(event string) bool {
	return i.Has(event)
}

// ignores reports whether event is locally ignored.
func (i *Item) ignores(event string) bool {
	return slices.Contains(i.IgnoredEvents, event)
}

// disabled reports whether event is disabled on i or an ancestor item.
func (i *Item) disabled(event string) bool {
	for p := i; p != nil; p = p.parent {
		if slices.Contains(p.DisabledEvents, event) {
			return true
		}
	}
	return false
}

// dispose runs the item's dispose hooks and releases what the scene
// attached for it.
func (i *Item) dispose(cam *Camera) {
	if i.disposed {
		return
	}
	i.disposed = true
	i.Trigger(EventDispose)

	if i.componentsGroup != nil {
		i.componentsGroup.RemoveFromParent()
		i.componentsGroup = nil
	}
	if i.Object != nil {
		i.Object.RemoveFromParent()
	}
	if cam != nil {
		cam.RemoveAudios(i.ctx.Audio, i.Audios)
	}
	if i.debugFolder != nil && i.ctx.Debug != nil {
		i.ctx.Debug.Remove(i.debugFolder)
		i.debugFolder = nil
	}
	i.OffAll()
}

// String returns "Name#ID".
func (i *Item) String() string {
	return fmt.Sprintf("%s#%d", i.Name, i.ID)
}

// arg returns args[n] as T, or the zero T when absent or of another type.
func arg[T any](args []any, n int) T {
	var zero T
	if n >= len(args) {
		return zero
	}
	v, ok := args[n].(T)
	if !ok {
		return zero
	}
	return v
}
