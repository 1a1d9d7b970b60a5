package canopy

import "github.com/go-gl/mathgl/mgl64"

// interactive reports whether pointer input should be dispatched.
func (s *Scene) interactive() bool {
	return s.state == StateReady || s.state == StateActive
}

func (s *Scene) onMouseDown(ev PointerEvent) {
	if !s.interactive() {
		return
	}
	if clicked, _ := s.raycastItem(ev.Centered, EventClick); clicked != nil {
		clicked.Trigger(EventClick, ev)
	}
	if down, _ := s.raycastItem(ev.Centered, EventMouseDown); down != nil {
		down.Trigger(EventMouseDown, ev)
	}
	if held, _ := s.raycastItem(ev.Centered, EventHold); held != nil {
		s.startHold(held)
	}
}

func (s *Scene) onMouseUp(ev PointerEvent) {
	if !s.interactive() {
		return
	}
	if up, _ := s.raycastItem(ev.Centered, EventMouseUp); up != nil {
		up.Trigger(EventMouseUp, ev)
	}
	s.releaseHold()
}

func (s *Scene) onMouseMove(ev PointerEvent) {
	if !s.interactive() {
		return
	}
	if moved, _ := s.raycastItem(ev.Centered, EventMouseMove); moved != nil {
		moved.Trigger(EventMouseMove, ev)
	}
	if hovered, hit := s.raycastItem(ev.Centered, EventMouseHover); hovered != nil {
		hovered.Trigger(EventMouseHover, HoverEvent{PointerEvent: ev, Hit: hit})
	}

	entered, _ := s.raycastItem(ev.Centered, EventMouseEnter, EventMouseLeave)
	if entered != s.hovered {
		if s.hovered != nil {
			s.hovered.Trigger(EventMouseLeave, ev)
		}
		s.hovered = entered
		if entered != nil {
			entered.Trigger(EventMouseEnter, ev)
		}
	}

	if s.hold.item != nil {
		if held, _ := s.raycastItem(ev.Centered, EventHold); held != s.hold.item {
			s.releaseHold()
		}
	}
}

// raycastItem resolves the item that should receive one of kinds for a
// pointer at ndc.
//
// Candidates are loaded items with a live callback for a kind that is not
// disabled on them or an ancestor. The nearest hit among their primitives
// is resolved to the innermost candidate whose primitive contains the hit
// object and that does not ignore the kind.
func (s *Scene) raycastItem(ndc mgl64.Vec2, kinds ...string) (*Item, Hit) {
	var candidates []*Item
	for _, it := range s.items.values() {
		if it.disposed || it.Object == nil {
			continue
		}
		for _, k := range kinds {
			if it.live(k) && !it.disabled(k) {
				candidates = append(candidates, it)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil, Hit{}
	}

	roots := make([]*Object, len(candidates))
	for i, c := range candidates {
		roots[i] = c.Object
	}
	hits := IntersectObjects(s.Camera.Ray(ndc), roots, true)
	if len(hits) == 0 {
		return nil, Hit{}
	}
	target := hits[0].Object

	var best *Item
	for _, c := range candidates {
		if !c.Object.Contains(target) || !c.accepts(kinds) {
			continue
		}
		if best == nil || best.Object.Contains(c.Object) {
			best = c
		}
	}
	if best == nil {
		return nil, Hit{}
	}
	return best, hits[0]
}

// accepts reports whether i has a live callback for any kind that is
// neither ignored nor disabled.
func (i *Item) accepts(kinds []string) bool {
	for _, k := range kinds {
		if i.live(k) && !i.ignores(k) && !i.disabled(k) {
			return true
		}
	}
	return false
}
