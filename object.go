package canopy

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counter ---

// objectIDCounter is a plain counter (no atomic; canopy is single-threaded).
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// --- Geometry ---

// AABB is an axis-aligned bounding box in an object's local space.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Empty reports whether the box has no volume in any axis.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Mesh is an indexed triangle list in local space. Color tints every
// vertex; Image, when set, is sampled through UVs.
type Mesh struct {
	Vertices []mgl64.Vec3
	Indices  []uint16
	UVs      []mgl64.Vec2
	Color    Color
	Image    *ebiten.Image

	bounds      AABB
	boundsValid bool
}

// NewMesh creates a mesh from vertices and indices, tinted white.
func NewMesh(vertices []mgl64.Vec3, indices []uint16) *Mesh {
	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Color:    ColorWhite,
	}
}

// Invalidate recomputes the cached bounds on next use. Call it after
// editing Vertices in place.
func (m *Mesh) Invalidate() {
	m.boundsValid = false
}

// Bounds returns the local-space box enclosing every vertex.
func (m *Mesh) Bounds() AABB {
	if m.boundsValid {
		return m.bounds
	}
	m.boundsValid = true
	if len(m.Vertices) == 0 {
		m.bounds = AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{-1, -1, -1}}
		return m.bounds
	}
	lo, hi := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	m.bounds = AABB{Min: lo, Max: hi}
	return m.bounds
}

// --- Object ---

// Object is a node of the primitive scene graph that scenes render and
// raycast against. Items own one Object each and nest their components'
// objects beneath it.
type Object struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Object
	children []*Object

	// Transform (local). Rotation holds Euler angles in radians applied in
	// X, Y, Z order.
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3

	// Visible hides the object and its subtree from rendering and raycasts.
	Visible bool

	// Mesh is the renderable geometry. Nil for groups.
	Mesh *Mesh
	// Bounds, when set, replaces the mesh as the raycast volume.
	Bounds *AABB

	UserData any

	disposed bool
}

// NewGroup creates an object with no geometry.
func NewGroup(name string) *Object {
	return &Object{
		ID:      nextObjectID(),
		Name:    name,
		Scale:   mgl64.Vec3{1, 1, 1},
		Visible: true,
	}
}

// NewMeshObject creates an object rendering mesh.
func NewMeshObject(name string, mesh *Mesh) *Object {
	o := NewGroup(name)
	o.Mesh = mesh
	return o
}

// --- Tree manipulation ---

// AddChild appends child to this object's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this object (cycle).
func (o *Object) AddChild(child *Object) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if isAncestor(child, o) {
		panic("canopy: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = o
	o.children = append(o.children, child)
}

// RemoveChild detaches child from this object.
// Panics if child.Parent != o.
func (o *Object) RemoveChild(child *Object) {
	if child.Parent != o {
		panic("canopy: child's parent is not this object")
	}
	o.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this object from its parent.
// No-op if this object has no parent.
func (o *Object) RemoveFromParent() {
	if o.Parent == nil {
		return
	}
	o.Parent.RemoveChild(o)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (o *Object) Children() []*Object {
	return o.children
}

// NumChildren returns the number of children.
func (o *Object) NumChildren() int {
	return len(o.children)
}

// Traverse visits o and its descendants depth-first, parents before
// children. Returning false from fn skips that object's subtree.
func (o *Object) Traverse(fn func(*Object) bool) {
	if !fn(o) {
		return
	}
	for _, child := range o.children {
		child.Traverse(fn)
	}
}

// Contains reports whether other is o or one of its descendants.
func (o *Object) Contains(other *Object) bool {
	return other != nil && isAncestor(o, other)
}

// --- Transforms ---

// LocalMatrix returns Translate * RotateX * RotateY * RotateZ * Scale.
func (o *Object) LocalMatrix() mgl64.Mat4 {
	m := mgl64.Translate3D(o.Position[0], o.Position[1], o.Position[2])
	if o.Rotation[0] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(o.Rotation[0]))
	}
	if o.Rotation[1] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(o.Rotation[1]))
	}
	if o.Rotation[2] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(o.Rotation[2]))
	}
	return m.Mul4(mgl64.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2]))
}

// WorldMatrix composes local matrices from the root down to o.
func (o *Object) WorldMatrix() mgl64.Mat4 {
	m := o.LocalMatrix()
	for p := o.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the object's origin in world space.
func (o *Object) WorldPosition() mgl64.Vec3 {
	return o.WorldMatrix().Col(3).Vec3()
}

// worldVisible reports whether o and every ancestor are visible.
func (o *Object) worldVisible() bool {
	for p := o; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// hitBounds returns the raycast volume in local space.
func (o *Object) hitBounds() (AABB, bool) {
	if o.Bounds != nil {
		return *o.Bounds, !o.Bounds.Empty()
	}
	if o.Mesh != nil {
		b := o.Mesh.Bounds()
		return b, !b.Empty()
	}
	return AABB{}, false
}

// --- Disposal ---

// Dispose removes this object from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (o *Object) Dispose() {
	if o.disposed {
		return
	}
	o.RemoveFromParent()
	o.dispose()
}

func (o *Object) dispose() {
	o.disposed = true
	o.ID = 0
	for _, child := range o.children {
		child.Parent = nil
		child.dispose()
	}
	o.children = nil
	o.Parent = nil
	o.Mesh = nil
	o.Bounds = nil
	o.UserData = nil
}

// IsDisposed returns true if this object has been disposed.
func (o *Object) IsDisposed() bool {
	return o.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Object) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from o.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (o *Object) removeChildByPtr(child *Object) {
	for i, c := range o.children {
		if c == child {
			copy(o.children[i:], o.children[i+1:])
			o.children[len(o.children)-1] = nil
			o.children = o.children[:len(o.children)-1]
			return
		}
	}
}
