package canopy

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
)

// Manager owns the active scene, at most one incoming scene, and the ordered
// render list the Renderer walks every frame.
//
// A switch loads the incoming scene, inserts its render group before the
// active one and, when the active scene has a transition, completes once
// that transition settles. Only one switch can be pending at a time.
type Manager struct {
	ctx      *Context
	log      *slog.Logger
	registry *Registry

	renderList []*Scene
	active     *Scene
	next       *Scene
	activeName string
	nextName   string

	// settled is set by the transition timeline and consumed after the
	// update fan-out so the render list never changes mid-iteration.
	settled bool

	scale float64
	start float64

	debugFolder DebugFolder
}

// NewManager creates a manager over registry.
func NewManager(ctx *Context, registry *Registry) (*Manager, error) {
	if ctx == nil {
		return nil, fmt.Errorf("canopy: new manager: %w", ErrNilContext)
	}
	if registry == nil {
		registry = &Registry{}
	}
	return &Manager{
		ctx:      ctx,
		log:      ctx.logger().With("component", "scenes"),
		registry: registry,
		scale:    1,
	}, nil
}

// --- Accessors ---

// Active returns the scene currently shown.
func (m *Manager) Active() *Scene { return m.active }

// Next returns the incoming scene of a pending switch.
func (m *Manager) Next() *Scene { return m.next }

// Pending reports whether a switch is in progress.
func (m *Manager) Pending() bool { return m.next != nil }

// ActiveName returns the registry name of the active scene.
func (m *Manager) ActiveName() string { return m.activeName }

// Registry returns the scene registry.
func (m *Manager) Registry() *Registry { return m.registry }

// RenderList returns a copy of the scenes drawn each frame, in draw order.
func (m *Manager) RenderList() []*Scene { return slices.Clone(m.renderList) }

// Scale returns the current navigation scale.
func (m *Manager) Scale() float64 { return m.scale }

// Start returns the current navigation start.
func (m *Manager) Start() float64 { return m.start }

// --- Lifecycle ---

// Init builds, loads and readies the scene registered under name, or the
// default scene when name is unknown, and makes it active.
func (m *Manager) Init(name string) error {
	if m.active != nil {
		m.log.Warn("scene manager already initialized", "active", m.activeName)
		return nil
	}
	if name == "" {
		name = m.registry.Default
	}
	d, ok := m.registry.Resolve(name)
	if !ok {
		return fmt.Errorf("canopy: init scene %q: %w", name, ErrNoDefaultScene)
	}
	if d.Name != name {
		m.log.Warn("scene not registered, using default", "scene", name, "default", d.Name)
	}

	m.Navigate(Navigation{Scene: d.Name, Scale: d.scale(), Start: d.Nav.Start}, 0)

	s, err := m.construct(d)
	if err != nil {
		return err
	}
	s.Trigger(EventLoad)
	s.Trigger(EventReady)
	m.insert(s.group(), nil)
	m.active = s
	m.activeName = d.Name

	if m.ctx.Debug != nil {
		m.setDebug()
	}
	return nil
}

// Switch replaces the active scene with one built from d, through the
// active scene's transition when it has one. Ignored while another switch is
// pending.
func (m *Manager) Switch(d Descriptor) {
	m.switchTo(d, false)
}

// SwitchInstant replaces the active scene without a transition.
func (m *Manager) SwitchInstant(d Descriptor) {
	m.switchTo(d, true)
}

// SwitchTo switches to the scene registered under name, or the default
// scene when name is unknown.
func (m *Manager) SwitchTo(name string) {
	d, ok := m.registry.Resolve(name)
	if !ok {
		m.log.Warn("no scene to switch to", "scene", name)
		return
	}
	m.Switch(d)
}

func (m *Manager) switchTo(d Descriptor, instant bool) {
	if m.next != nil {
		m.log.Debug("switch ignored, another one is pending", "scene", d.Name, "next", m.nextName)
		return
	}
	if d.New == nil {
		fallback, ok := m.registry.Lookup(m.registry.Default)
		if !ok || fallback.New == nil {
			m.log.Warn("scene has no factory and no default to fall back to", "scene", d.Name)
			return
		}
		m.log.Warn("scene has no factory, using default", "scene", d.Name, "default", fallback.Name)
		d = fallback
	}

	next, err := m.construct(d)
	if err != nil {
		m.log.Warn("scene construction failed", "scene", d.Name, "err", err)
		return
	}
	m.next = next
	m.nextName = d.Name

	next.Trigger(EventLoad)
	m.insert(next.group(), m.active)

	if m.active != nil {
		m.active.Trigger(EventDisposeStart)
	}
	if m.ctx.Scroll != nil {
		m.ctx.Scroll.SetDisabled(true)
	}
	m.Navigate(Navigation{Scene: d.Name, Scale: m.scale, Start: m.start})

	if !instant && m.active != nil && m.active.Transition != nil && m.active.Transition.Duration > 0 {
		m.active.Transition.Start(next).Then(func() { m.settled = true })
		return
	}
	m.complete()
}

// complete finishes the pending switch: the previous active scene is
// disposed and its group leaves the render list, then next becomes active.
func (m *Manager) complete() {
	m.settled = false
	next := m.next
	if next == nil {
		return
	}

	if old := m.active; old != nil {
		group := old.group()
		old.Trigger(EventDispose)
		m.remove(group)
	}

	m.active = next
	m.activeName = m.nextName
	m.next = nil
	m.nextName = ""

	if m.ctx.Scroll != nil {
		m.ctx.Scroll.SetDisabled(false)
	}
	next.Trigger(EventReady)
	for _, s := range next.group() {
		s.setActive(true)
	}
	if m.debugFolder != nil {
		m.debugFolder.Select("scene", m.activeName)
	}
}

// Update fans dt out to every scene in the render list, then completes a
// switch whose transition settled during the fan-out.
func (m *Manager) Update(dt float64) {
	for _, s := range m.RenderList() {
		s.Trigger(EventUpdate, dt)
	}
	if m.settled {
		m.complete()
	}
}

// Resize fans resize out to every scene in the render list.
func (m *Manager) Resize() {
	for _, s := range m.RenderList() {
		s.Trigger(EventResize)
	}
}

// Dispose disposes every scene in the render list and empties it.
func (m *Manager) Dispose() {
	for _, s := range m.RenderList() {
		s.Trigger(EventDispose)
		s.setActive(false)
	}
	m.renderList = nil
	m.active = nil
	m.next = nil
	m.activeName = ""
	m.nextName = ""
	m.settled = false
	if m.ctx.Debug != nil && m.debugFolder != nil {
		m.ctx.Debug.Remove(m.debugFolder)
		m.debugFolder = nil
	}
}

// Navigate publishes nav to the state sink. When scroll is given the scroll
// manager jumps there immediately.
func (m *Manager) Navigate(nav Navigation, scroll ...float64) {
	if len(scroll) > 0 && m.ctx.Scroll != nil {
		m.ctx.Scroll.To(scroll[0], true)
	}
	if nav.Scale != 0 {
		m.scale = nav.Scale
	}
	m.start = nav.Start

	if m.ctx.Sink == nil {
		return
	}
	if nav.Scene != "" {
		m.ctx.Sink.SetScene(nav.Scene)
	}
	m.ctx.Sink.SetNavigation(Navigation{Scene: nav.Scene, Scale: m.scale, Start: m.start})
}

// --- Internals ---

func (m *Manager) construct(d Descriptor) (*Scene, error) {
	if d.New == nil {
		return nil, fmt.Errorf("canopy: scene %q: %w", d.Name, ErrNoFactory)
	}
	s, err := d.New(m.ctx)
	if err != nil {
		return nil, fmt.Errorf("canopy: scene %q: %w", d.Name, err)
	}
	if s == nil {
		return nil, fmt.Errorf("canopy: scene %q: %w", d.Name, ErrNilScene)
	}
	return s, nil
}

// insert places group as one block before anchor, or at the end when anchor
// is nil or absent. Scenes already listed are moved, never duplicated.
func (m *Manager) insert(group []*Scene, anchor *Scene) {
	m.renderList = slices.DeleteFunc(m.renderList, func(s *Scene) bool {
		return slices.Contains(group, s)
	})
	group = dedupeScenes(group)

	at := len(m.renderList)
	if anchor != nil {
		if i := slices.Index(m.renderList, anchor); i >= 0 {
			at = i
		}
	}
	m.renderList = slices.Insert(m.renderList, at, group...)
	for _, s := range group {
		s.setActive(true)
	}
}

// remove takes every scene of group out of the render list.
func (m *Manager) remove(group []*Scene) {
	m.renderList = slices.DeleteFunc(m.renderList, func(s *Scene) bool {
		return slices.Contains(group, s)
	})
	for _, s := range group {
		s.setActive(false)
	}
}

func dedupeScenes(in []*Scene) []*Scene {
	out := make([]*Scene, 0, len(in))
	for _, s := range in {
		if s != nil && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// setDebug adds the scene selector to the debug panel.
func (m *Manager) setDebug() {
	m.debugFolder = m.ctx.Debug.AddFolder("Scenes")
	m.debugFolder.AddList("scene", m.registry.Names(), m.activeName, m.SwitchTo)
	m.debugFolder.AddMonitor("active", func() string { return m.activeName })
	m.debugFolder.AddMonitor("render list", func() string {
		return strconv.Itoa(len(m.renderList))
	})
}
