package canopy

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerEvent is the payload of "mousedown", "mouseup" and "mousemove".
type PointerEvent struct {
	// X and Y are in viewport pixels, origin top-left.
	X, Y float64
	// Centered is the position in normalized device coordinates: [-1, 1]
	// on both axes with +Y up.
	Centered mgl64.Vec2
	Button   PointerButton
}

// pointerInputKind distinguishes queued synthetic events.
type pointerInputKind uint8

const (
	pointerInputMove pointerInputKind = iota
	pointerInputPress
	pointerInputRelease
)

// syntheticPointerEvent is a single injected pointer event in viewport
// pixels.
type syntheticPointerEvent struct {
	x, y   float64
	kind   pointerInputKind
	button PointerButton
}

// PointerManager turns mouse and touch state into pointer events. Call
// Update once per tick. Injected events take priority: while the queue is
// non-empty, one synthetic event is consumed per Update and real input is
// ignored.
type PointerManager struct {
	Emitter

	viewport *Viewport

	x, y    float64
	hasPos  bool
	pressed [3]bool

	injectQueue []syntheticPointerEvent
	touchIDs    []ebiten.TouchID
}

// NewPointerManager creates a pointer manager that normalizes coordinates
// against viewport.
func NewPointerManager(viewport *Viewport) *PointerManager {
	return &PointerManager{viewport: viewport}
}

// Position returns the last known pointer position in viewport pixels.
func (p *PointerManager) Position() (float64, float64) {
	return p.x, p.y
}

// Pressed reports whether button is currently held.
func (p *PointerManager) Pressed(button PointerButton) bool {
	return int(button) < len(p.pressed) && p.pressed[button]
}

// InjectPress queues a left-button press at (x, y).
func (p *PointerManager) InjectPress(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, kind: pointerInputPress})
}

// InjectMove queues a pointer move to (x, y). Button state is unchanged.
func (p *PointerManager) InjectMove(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, kind: pointerInputMove})
}

// InjectRelease queues a left-button release at (x, y).
func (p *PointerManager) InjectRelease(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, kind: pointerInputRelease})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two ticks.
func (p *PointerManager) InjectClick(x, y float64) {
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// Queued returns the number of pending synthetic events.
func (p *PointerManager) Queued() int {
	return len(p.injectQueue)
}

// Update consumes one injected event or polls ebiten.
func (p *PointerManager) Update() {
	if p.processInjectedInput() {
		return
	}
	p.pollInput()
}

// processInjectedInput pops one event from the inject queue. Returns true
// if an event was consumed.
func (p *PointerManager) processInjectedInput() bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	evt := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]

	p.moveTo(evt.x, evt.y)
	switch evt.kind {
	case pointerInputPress:
		p.setButton(evt.button, true)
	case pointerInputRelease:
		p.setButton(evt.button, false)
	}
	return true
}

// pollInput reads the first active touch, falling back to the mouse.
func (p *PointerManager) pollInput() {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(p.touchIDs[0])
		p.moveTo(float64(tx), float64(ty))
		p.setButton(ButtonLeft, true)
		return
	}
	mx, my := ebiten.CursorPosition()
	p.moveTo(float64(mx), float64(my))
	p.setButton(ButtonLeft, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	p.setButton(ButtonRight, ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))
	p.setButton(ButtonMiddle, ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle))
}

// moveTo updates the position and emits "mousemove" when it changed.
func (p *PointerManager) moveTo(x, y float64) {
	if p.hasPos && x == p.x && y == p.y {
		return
	}
	p.x, p.y = x, y
	p.hasPos = true
	p.Trigger("mousemove", p.event(ButtonLeft))
}

// setButton emits "mousedown" or "mouseup" on a state edge.
func (p *PointerManager) setButton(button PointerButton, down bool) {
	if p.pressed[button] == down {
		return
	}
	p.pressed[button] = down
	if down {
		p.Trigger("mousedown", p.event(button))
	} else {
		p.Trigger("mouseup", p.event(button))
	}
}

func (p *PointerManager) event(button PointerButton) PointerEvent {
	return PointerEvent{
		X:        p.x,
		Y:        p.y,
		Centered: p.centered(p.x, p.y),
		Button:   button,
	}
}

// centered maps viewport pixels to normalized device coordinates.
func (p *PointerManager) centered(x, y float64) mgl64.Vec2 {
	w, h := 1.0, 1.0
	if p.viewport != nil {
		w, h = float64(p.viewport.Width), float64(p.viewport.Height)
	}
	return mgl64.Vec2{x/w*2 - 1, -(y/h*2 - 1)}
}
