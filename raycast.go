package canopy

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line in world space. Direction need not be normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is one ray intersection.
type Hit struct {
	Object   *Object
	Distance float64
	Point    mgl64.Vec3
}

// IntersectObjects tests ray against roots and, when recursive is true,
// their descendants. Hits are sorted nearest first; each object appears at
// most once even if roots overlap. Invisible subtrees are skipped.
func IntersectObjects(ray Ray, roots []*Object, recursive bool) []Hit {
	dirLen := ray.Direction.Len()
	if dirLen == 0 {
		return nil
	}

	var hits []Hit
	seen := make(map[*Object]struct{})
	test := func(o *Object) bool {
		if o.disposed || !o.Visible {
			return false
		}
		if _, ok := seen[o]; ok {
			return recursive
		}
		seen[o] = struct{}{}
		if t, ok := intersectObject(ray, o); ok {
			hits = append(hits, Hit{Object: o, Distance: t * dirLen, Point: ray.At(t)})
		}
		return recursive
	}
	for _, root := range roots {
		if root == nil || !root.worldVisible() {
			continue
		}
		root.Traverse(test)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// intersectObject returns the world ray parameter of the nearest hit
// against o's own geometry. The ray is moved into local space so the
// parameter carries over unchanged.
func intersectObject(ray Ray, o *Object) (float64, bool) {
	box, ok := o.hitBounds()
	if !ok {
		return 0, false
	}
	world := o.WorldMatrix()
	if world.Det() == 0 {
		return 0, false
	}
	inv := world.Inv()
	local := Ray{
		Origin:    inv.Mul4x1(ray.Origin.Vec4(1)).Vec3(),
		Direction: inv.Mul4x1(ray.Direction.Vec4(0)).Vec3(),
	}

	t, ok := intersectAABB(local, box)
	if !ok {
		return 0, false
	}
	if o.Bounds != nil || o.Mesh == nil || len(o.Mesh.Indices) < 3 {
		return t, true
	}
	return intersectTriangles(local, o.Mesh)
}

// intersectAABB is the slab test. Returns the entry parameter, or the exit
// parameter when the origin is inside the box.
func intersectAABB(r Ray, b AABB) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Direction[i]
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// intersectTriangles runs Möller-Trumbore against every triangle of m,
// double-sided, and returns the nearest positive parameter.
func intersectTriangles(r Ray, m *Mesh) (float64, bool) {
	const eps = 1e-12
	best := math.Inf(1)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		e1 := v1.Sub(v0)
		e2 := v2.Sub(v0)
		p := r.Direction.Cross(e2)
		det := e1.Dot(p)
		if math.Abs(det) < eps {
			continue
		}
		invDet := 1 / det
		s := r.Origin.Sub(v0)
		u := s.Dot(p) * invDet
		if u < 0 || u > 1 {
			continue
		}
		q := s.Cross(e1)
		v := r.Direction.Dot(q) * invDet
		if v < 0 || u+v > 1 {
			continue
		}
		t := e2.Dot(q) * invDet
		if t >= 0 && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
