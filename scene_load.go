package canopy

import "strconv"

// onLoad builds the render target, flattens items and nested scenes into
// fresh arenas, attaches primitives and wires input.
func (s *Scene) onLoad() {
	if !s.transition(StateLoading, StateConstructed) {
		return
	}

	v := s.ctx.Viewport
	s.target = newRenderTarget(v)
	w, h := v.PixelSize()
	s.Camera.Resize(float64(w), float64(h))
	if s.Shader != nil {
		s.Shader.Resize(w, h)
	}
	s.Transition.Resize(w, h)

	s.items = s.flattenItems()
	s.attachItems()

	s.scenes = s.flattenScenes()
	for _, c := range s.Scenes {
		if c.Scene != nil && c.Scene.state == StateConstructed {
			c.Scene.Trigger(EventLoad)
		}
	}

	if s.ctx.Debug != nil {
		s.setDebug()
	}
	s.Camera.AddAudios(s.ctx.Audio, s.Audios, s.root)
	s.graph.Add(s.Camera.Object())
	s.setEvents()
}

// itemEntry is a queued node of the breadth-first item walk.
type itemEntry struct {
	key    string
	item   *Item
	parent *Item
	depth  int
}

// flattenItems walks the component tree breadth-first, binding each item to
// the scene and emitting load top-down. Items reached twice are skipped.
func (s *Scene) flattenItems() *arena[*Item] {
	out := newArena[*Item]()
	seen := make(map[*Item]struct{})

	queue := make([]itemEntry, 0, len(s.Components))
	for _, c := range s.Components {
		queue = append(queue, itemEntry{key: c.Key, item: c.Item, depth: 1})
	}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		if e.item == nil {
			s.log.Warn("component is not defined", "key", e.key)
			continue
		}
		if _, dup := seen[e.item]; dup {
			s.log.Warn("component registered twice, skipped", "key", e.key, "item", e.item.String())
			continue
		}
		if !e.item.bind(s, e.parent) {
			continue
		}
		seen[e.item] = struct{}{}
		out.add(e.key, e.item, e.depth, "component", s.log)
		e.item.Trigger(EventLoad)

		for _, c := range e.item.Components {
			queue = append(queue, itemEntry{key: c.Key, item: c.Item, parent: e.item, depth: e.depth + 1})
		}
	}
	return out
}

// attachItems inserts top-level item primitives through the scene graph.
func (s *Scene) attachItems() {
	attached := make(map[*Item]struct{})
	for _, c := range s.Components {
		if obj := s.itemPrimitive(c.Item, attached); obj != nil {
			s.graph.Add(obj)
		}
	}
}

// itemPrimitive returns the item's object with its components' primitives nested
// under a "components" group, and binds its audio.
func (s *Scene) itemPrimitive(it *Item, attached map[*Item]struct{}) *Object {
	if it == nil || it.scene != s {
		return nil
	}
	if _, ok := attached[it]; ok {
		return nil
	}
	attached[it] = struct{}{}
	if it.Object == nil {
		it.Object = NewGroup(it.Name)
	}

	if len(it.Components) > 0 {
		group := NewGroup("components")
		for _, c := range it.Components {
			if obj := s.itemPrimitive(c.Item, attached); obj != nil {
				group.AddChild(obj)
			}
		}
		it.Object.AddChild(group)
		it.componentsGroup = group
	}
	s.Camera.AddAudios(s.ctx.Audio, it.Audios, it.Object)
	return it.Object
}

// sceneEntry is a queued node of the breadth-first scene walk.
type sceneEntry struct {
	key    string
	scene  *Scene
	parent *Scene
	depth  int
}

// flattenScenes walks nested scenes breadth-first at any depth. Only
// parents are assigned here; each scene loads its own children.
func (s *Scene) flattenScenes() *arena[*Scene] {
	out := newArena[*Scene]()
	seen := map[*Scene]struct{}{s: {}}

	queue := make([]sceneEntry, 0, len(s.Scenes))
	for _, c := range s.Scenes {
		queue = append(queue, sceneEntry{key: c.Key, scene: c.Scene, parent: s, depth: 1})
	}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		if e.scene == nil {
			s.log.Warn("scene is not defined", "key", e.key)
			continue
		}
		if _, dup := seen[e.scene]; dup {
			s.log.Warn("scene registered twice, skipped", "key", e.key)
			continue
		}
		seen[e.scene] = struct{}{}
		e.scene.parent = e.parent
		out.add(e.key, e.scene, e.depth, "scene", s.log)

		for _, c := range e.scene.Scenes {
			queue = append(queue, sceneEntry{key: c.Key, scene: c.Scene, parent: e.scene, depth: e.depth + 1})
		}
	}
	return out
}

// setDebug registers the scene folder with its wireframe toggle.
func (s *Scene) setDebug() {
	s.debugFolder = s.ctx.Debug.AddFolder("Scene - " + s.Name)
	s.debugFolder.AddToggle("wireframe", &s.Wireframe, nil)
	s.debugFolder.AddMonitor("items", func() string {
		return strconv.Itoa(s.items.len())
	})
}

// setEvents subscribes to the pointer and scroll managers under a
// per-scene namespace so dispose can remove exactly these listeners.
func (s *Scene) setEvents() {
	ns := "." + s.listenNS
	if p := s.ctx.Pointer; p != nil {
		p.On(EventMouseDown+ns, func(args ...any) any { s.onMouseDown(arg[PointerEvent](args, 0)); return nil })
		p.On(EventMouseUp+ns, func(args ...any) any { s.onMouseUp(arg[PointerEvent](args, 0)); return nil })
		p.On(EventMouseMove+ns, func(args ...any) any { s.onMouseMove(arg[PointerEvent](args, 0)); return nil })
	}
	if sc := s.ctx.Scroll; sc != nil {
		sc.On(EventScroll+ns, func(args ...any) any { s.Trigger(EventScroll, args...); return nil })
	}
}
