package canopy

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// moveAnim holds active move-to tweens for the camera position.
type moveAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
	Aspect    float64

	object *Object
	move   *moveAnim
	audios []string
}

// NewCamera creates a camera 10 units back on +Z looking at the origin.
func NewCamera(name string, aspect float64) *Camera {
	c := &Camera{
		Position: mgl64.Vec3{0, 0, 10},
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      45,
		Near:     0.1,
		Far:      1000,
		Aspect:   aspect,
		object:   NewGroup(name + ".camera"),
	}
	c.syncObject()
	return c
}

// Object returns the graph node that follows the camera. Scenes attach it
// to their root so positional audio has a listener.
func (c *Camera) Object() *Object {
	return c.object
}

// Resize updates the aspect ratio for a width x height target.
func (c *Camera) Resize(width, height float64) {
	if height <= 0 {
		return
	}
	c.Aspect = width / height
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the camera-to-clip matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Ray returns the world-space ray through ndc, a point in normalized device
// coordinates ([-1, 1], +Y up). The ray starts on the near plane.
func (c *Camera) Ray(ndc mgl64.Vec2) Ray {
	inv := c.ViewProjection().Inv()
	near := unproject(inv, mgl64.Vec3{ndc[0], ndc[1], -1})
	far := unproject(inv, mgl64.Vec3{ndc[0], ndc[1], 1})
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// Project maps a world point to normalized device coordinates. ok is false
// for points behind the camera.
func (c *Camera) Project(world mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	return projectPoint(c.ViewProjection(), world)
}

// MoveTo animates Position to pos over duration seconds.
func (c *Camera) MoveTo(pos mgl64.Vec3, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	anim := &moveAnim{}
	for i := range anim.tweens {
		anim.tweens[i] = gween.New(float32(c.Position[i]), float32(pos[i]), duration, easeFn)
	}
	c.move = anim
}

// Moving reports whether a MoveTo animation is running.
func (c *Camera) Moving() bool {
	return c.move != nil
}

// Update advances MoveTo by dt seconds and keeps the camera object in sync.
func (c *Camera) Update(dt float32) {
	if c.move != nil {
		for i, tw := range c.move.tweens {
			if c.move.done[i] {
				continue
			}
			val, done := tw.Update(dt)
			c.Position[i] = float64(val)
			c.move.done[i] = done
		}
		if c.move.done[0] && c.move.done[1] && c.move.done[2] {
			c.move = nil
		}
	}
	c.syncObject()
}

func (c *Camera) syncObject() {
	c.object.Position = c.Position
}

// AddAudios attaches positional sounds to target with the camera as
// listener. No-op when sys is nil.
func (c *Camera) AddAudios(sys AudioSystem, audios map[string]AudioParams, target *Object) {
	if sys == nil || len(audios) == 0 {
		return
	}
	for _, name := range sortedKeys(audios) {
		sys.Attach(name, audios[name], c.object, target)
		c.audios = append(c.audios, name)
	}
}

// RemoveAudios detaches sounds previously added with AddAudios.
func (c *Camera) RemoveAudios(sys AudioSystem, audios map[string]AudioParams) {
	if sys == nil || len(audios) == 0 {
		return
	}
	for _, name := range sortedKeys(audios) {
		i := slices.Index(c.audios, name)
		if i < 0 {
			continue
		}
		sys.Detach(name)
		c.audios = slices.Delete(c.audios, i, i+1)
	}
}

// Audios returns the names of attached sounds.
func (c *Camera) Audios() []string {
	return slices.Clone(c.audios)
}

// Dispose detaches every remaining sound and the camera object.
func (c *Camera) Dispose(sys AudioSystem) {
	if sys != nil {
		for _, name := range c.audios {
			sys.Detach(name)
		}
	}
	c.audios = nil
	c.move = nil
	c.object.Dispose()
}

// --- Projection helpers ---

func unproject(inv mgl64.Mat4, ndc mgl64.Vec3) mgl64.Vec3 {
	v := inv.Mul4x1(ndc.Vec4(1))
	if v[3] == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v[3])
}

func projectPoint(viewProj mgl64.Mat4, world mgl64.Vec3) (mgl64.Vec3, bool) {
	clip := viewProj.Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip[3]), true
}

// ndcToScreen maps normalized device coordinates to pixels in a w x h
// target, origin top-left.
func ndcToScreen(ndc mgl64.Vec3, w, h float64) (float64, float64) {
	return (ndc[0] + 1) / 2 * w, (1 - ndc[1]) / 2 * h
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
