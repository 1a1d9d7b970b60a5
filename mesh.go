package canopy

import "github.com/go-gl/mathgl/mgl64"

// NewBoxMesh returns an axis-aligned box of the given size centred on the
// origin.
func NewBoxMesh(w, h, d float64) *Mesh {
	x, y, z := w/2, h/2, d/2
	vertices := []mgl64.Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}, // front
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z}, // back
	}
	indices := []uint16{
		0, 1, 2, 0, 2, 3, // front
		5, 4, 7, 5, 7, 6, // back
		4, 0, 3, 4, 3, 7, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		4, 5, 1, 4, 1, 0, // bottom
	}
	return NewMesh(vertices, indices)
}

// NewPlaneMesh returns a w x h quad in the XY plane facing +Z, with UVs
// covering the full texture.
func NewPlaneMesh(w, h float64) *Mesh {
	x, y := w/2, h/2
	m := NewMesh(
		[]mgl64.Vec3{{-x, -y, 0}, {x, -y, 0}, {x, y, 0}, {-x, y, 0}},
		[]uint16{0, 1, 2, 0, 2, 3},
	)
	m.UVs = []mgl64.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	return m
}
