package canopy

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// rayDown points from z=10 towards -Z through (x, y).
func rayDown(x, y float64) Ray {
	return Ray{Origin: mgl64.Vec3{x, y, 10}, Direction: mgl64.Vec3{0, 0, -1}}
}

func TestIntersectAABB(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float64
	}{
		{"straight hit", rayDown(0, 0), true, 9},
		{"edge hit", rayDown(1, 1), true, 9},
		{"miss", rayDown(2, 0), false, 0},
		{"behind", Ray{Origin: mgl64.Vec3{0, 0, -10}, Direction: mgl64.Vec3{0, 0, -1}}, false, 0},
		{"inside", Ray{Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{0, 0, -1}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intersectAABB(tt.ray, box)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && !approxEqual(got, tt.wantT, epsilon) {
				t.Errorf("t = %f, want %f", got, tt.wantT)
			}
		})
	}
}

func TestIntersectObjectsSortedNearestFirst(t *testing.T) {
	far := NewMeshObject("far", NewBoxMesh(2, 2, 2))
	far.Position = mgl64.Vec3{0, 0, -5}
	near := NewMeshObject("near", NewBoxMesh(2, 2, 2))
	near.Position = mgl64.Vec3{0, 0, 2}

	hits := IntersectObjects(rayDown(0, 0), []*Object{far, near}, false)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Object != near || hits[1].Object != far {
		t.Errorf("order = %s, %s; want near, far", hits[0].Object.Name, hits[1].Object.Name)
	}
	if !approxEqual(hits[0].Distance, 7, 1e-9) {
		t.Errorf("near distance = %f, want 7", hits[0].Distance)
	}
	if !vecApprox(hits[0].Point, mgl64.Vec3{0, 0, 3}) {
		t.Errorf("near point = %v", hits[0].Point)
	}
}

func TestIntersectObjectsRecursive(t *testing.T) {
	group := NewGroup("group")
	child := NewMeshObject("child", NewBoxMesh(1, 1, 1))
	group.AddChild(child)

	if hits := IntersectObjects(rayDown(0, 0), []*Object{group}, false); len(hits) != 0 {
		t.Errorf("non-recursive hits = %d, want 0", len(hits))
	}
	hits := IntersectObjects(rayDown(0, 0), []*Object{group}, true)
	if len(hits) != 1 || hits[0].Object != child {
		t.Fatalf("recursive hits = %+v, want child", hits)
	}

	// Overlapping roots report each object once.
	hits = IntersectObjects(rayDown(0, 0), []*Object{group, child}, true)
	if len(hits) != 1 {
		t.Errorf("overlapping roots hits = %d, want 1", len(hits))
	}
}

func TestIntersectObjectsTransformed(t *testing.T) {
	parent := NewGroup("parent")
	parent.Position = mgl64.Vec3{5, 0, 0}
	parent.Scale = mgl64.Vec3{3, 3, 3}
	box := NewMeshObject("box", NewBoxMesh(1, 1, 1))
	parent.AddChild(box)

	if hits := IntersectObjects(rayDown(6.4, 0), []*Object{parent}, true); len(hits) != 1 {
		t.Errorf("hits inside scaled box = %d, want 1", len(hits))
	}
	if hits := IntersectObjects(rayDown(7, 0), []*Object{parent}, true); len(hits) != 0 {
		t.Errorf("hits outside scaled box = %d, want 0", len(hits))
	}

	parent.Scale = mgl64.Vec3{0, 0, 0}
	if hits := IntersectObjects(rayDown(5, 0), []*Object{parent}, true); len(hits) != 0 {
		t.Errorf("degenerate matrix hits = %d, want 0", len(hits))
	}
}

func TestIntersectObjectsInvisible(t *testing.T) {
	parent := NewGroup("parent")
	box := NewMeshObject("box", NewBoxMesh(1, 1, 1))
	parent.AddChild(box)
	parent.Visible = false

	if hits := IntersectObjects(rayDown(0, 0), []*Object{box}, true); len(hits) != 0 {
		t.Errorf("hits under invisible parent = %d, want 0", len(hits))
	}
}

func TestIntersectTrianglesVsBounds(t *testing.T) {
	// A single triangle covering only the lower-left half of its bounds.
	tri := NewMesh(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[]uint16{0, 1, 2},
	)
	o := NewMeshObject("tri", tri)

	if hits := IntersectObjects(rayDown(0.2, 0.2), []*Object{o}, false); len(hits) != 1 {
		t.Errorf("hit inside triangle = %d, want 1", len(hits))
	}
	if hits := IntersectObjects(rayDown(0.9, 0.9), []*Object{o}, false); len(hits) != 0 {
		t.Errorf("hit outside triangle = %d, want 0", len(hits))
	}

	// Explicit bounds take over from the triangles.
	o.Bounds = &AABB{Min: mgl64.Vec3{0, 0, -0.1}, Max: mgl64.Vec3{1, 1, 0.1}}
	if hits := IntersectObjects(rayDown(0.9, 0.9), []*Object{o}, false); len(hits) != 1 {
		t.Errorf("hit with explicit bounds = %d, want 1", len(hits))
	}
}

func TestIntersectObjectsZeroDirection(t *testing.T) {
	o := NewMeshObject("box", NewBoxMesh(1, 1, 1))
	if hits := IntersectObjects(Ray{}, []*Object{o}, false); hits != nil {
		t.Errorf("hits = %v, want nil", hits)
	}
}

func TestIntersectLiteralMesh(t *testing.T) {
	verts := []mgl64.Vec3{{2, -1, 0}, {4, -1, 0}, {4, 1, 0}, {2, 1, 0}}
	inds := []uint16{0, 1, 2, 0, 2, 3}

	tests := []struct {
		name string
		mesh *Mesh
	}{
		{"literal", &Mesh{Vertices: verts, Indices: inds}},
		{"constructor", NewMesh(verts, inds)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := IntersectObjects(rayDown(3, 0), []*Object{NewMeshObject("quad", tt.mesh)}, false)
			if len(hits) != 1 {
				t.Fatalf("hits = %d, want 1 (bounds %v)", len(hits), tt.mesh.Bounds())
			}
			want := AABB{Min: mgl64.Vec3{2, -1, 0}, Max: mgl64.Vec3{4, 1, 0}}
			if b := tt.mesh.Bounds(); b != want {
				t.Errorf("bounds = %v, want %v", b, want)
			}
		})
	}
}

func TestMeshInvalidate(t *testing.T) {
	m := &Mesh{Vertices: []mgl64.Vec3{{0, 0, 0}, {1, 1, 1}}}
	if got := m.Bounds().Max; got != (mgl64.Vec3{1, 1, 1}) {
		t.Fatalf("max = %v", got)
	}
	m.Vertices[1] = mgl64.Vec3{5, 5, 5}
	if got := m.Bounds().Max; got != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("bounds should stay cached until Invalidate, got %v", got)
	}
	m.Invalidate()
	if got := m.Bounds().Max; got != (mgl64.Vec3{5, 5, 5}) {
		t.Errorf("max after Invalidate = %v, want (5, 5, 5)", got)
	}
}
